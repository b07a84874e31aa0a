// Package report builds the machine-readable summary of a collection run.
package report

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-langs/internal/domain"
	"github.com/naka-gawa/github-langs/internal/render"
)

// Report is the JSON document printed by the stats command.
type Report struct {
	Total        int                 `json:"total"`
	Languages    []Language          `json:"languages"`
	Summary      Summary             `json:"summary"`
	Repositories []domain.RepoResult `json:"repositories"`
}

// Language is one row of the language table, percent rounded to one decimal.
type Language struct {
	Name    string  `json:"name"`
	Lines   int     `json:"lines"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}

// Summary describes how the lines are spread across analysed repositories.
type Summary struct {
	Listed             int                       `json:"listed"`
	Analyzed           int                       `json:"analyzed"`
	Skipped            map[domain.SkipReason]int `json:"skipped"`
	MeanLinesPerRepo   float64                   `json:"mean_lines_per_repo"`
	MedianLinesPerRepo float64                   `json:"median_lines_per_repo"`
	MaxLinesPerRepo    float64                   `json:"max_lines_per_repo"`
}

// Build assembles the report for a collection using the card's palette.
func Build(c *domain.Collection, palette render.Palette) (*Report, error) {
	r := &Report{
		Total:        c.Stats.Total,
		Languages:    []Language{},
		Repositories: c.Repositories,
		Summary: Summary{
			Listed:  len(c.Repositories),
			Skipped: make(map[domain.SkipReason]int),
		},
	}

	for _, it := range render.Items(c.Stats, palette) {
		pct, err := stats.Round(it.Percent, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to round percentage: %w", err)
		}
		r.Languages = append(r.Languages, Language{Name: it.Language, Lines: it.Lines, Percent: pct, Color: it.Color})
	}

	var perRepo stats.Float64Data
	for _, repo := range c.Repositories {
		if !repo.Analyzed() {
			r.Summary.Skipped[repo.Skip]++
			continue
		}
		r.Summary.Analyzed++
		perRepo = append(perRepo, float64(repo.Stats.Total))
	}

	if err := r.Summary.describe(perRepo); err != nil {
		return nil, err
	}
	return r, nil
}

// describe fills the per-repository figures. No analysed repository leaves them at zero.
func (s *Summary) describe(perRepo stats.Float64Data) error {
	if perRepo.Len() == 0 {
		return nil
	}
	var err error
	if s.MeanLinesPerRepo, err = perRepo.Mean(); err != nil {
		return fmt.Errorf("failed to compute mean: %w", err)
	}
	if s.MeanLinesPerRepo, err = stats.Round(s.MeanLinesPerRepo, 1); err != nil {
		return fmt.Errorf("failed to round mean: %w", err)
	}
	if s.MedianLinesPerRepo, err = perRepo.Median(); err != nil {
		return fmt.Errorf("failed to compute median: %w", err)
	}
	if s.MaxLinesPerRepo, err = perRepo.Max(); err != nil {
		return fmt.Errorf("failed to compute max: %w", err)
	}
	return nil
}
