// Package render turns language statistics into the animated SVG language card.
package render

import (
	"cmp"
	"slices"

	"github.com/naka-gawa/github-langs/internal/domain"
)

// Animation timing of the bar segments and legend rows.
const (
	BaseDelay = 0.85
	DelayStep = 0.2
)

// Palette maps a language label to a display color.
type Palette struct {
	Colors  map[string]string
	Default string
}

// Color returns the color for label, or the default for unknown labels.
func (p Palette) Color(label string) string {
	if c, ok := p.Colors[label]; ok {
		return c
	}
	return p.Default
}

// Item is one language as it appears on the card.
type Item struct {
	Language string  `json:"language"`
	Lines    int     `json:"lines"`
	Percent  float64 `json:"percent"`
	Color    string  `json:"color"`
	Delay    float64 `json:"delay"`
}

// Items computes the card items from stats, sorted by share descending with
// ties ordered by label. A zero total yields no items.
func Items(stats *domain.LanguageStats, palette Palette) []Item {
	if stats == nil || stats.Total <= 0 {
		return []Item{}
	}

	items := make([]Item, 0, len(stats.Lines))
	for label, lines := range stats.Lines {
		items = append(items, Item{
			Language: label,
			Lines:    lines,
			Percent:  float64(lines) / float64(stats.Total) * 100,
			Color:    palette.Color(label),
		})
	}
	slices.SortFunc(items, func(a, b Item) int {
		if c := cmp.Compare(b.Lines, a.Lines); c != 0 {
			return c
		}
		return cmp.Compare(a.Language, b.Language)
	})
	for i := range items {
		items[i].Delay = BaseDelay + float64(i)*DelayStep
	}
	return items
}
