// Package domain contains the core data structures and domain logic for the application.
package domain

// Repository identifies a repository returned by the account listing.
type Repository struct {
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Fork     bool   `json:"fork"`
}

// LanguageStats holds the cumulative non-empty line count per language label
// and the grand total across all labels.
// It is the core domain entity of this application.
type LanguageStats struct {
	Lines map[string]int `json:"lines"`
	Total int            `json:"total"`
}

// NewLanguageStats returns empty stats ready for accumulation.
func NewLanguageStats() *LanguageStats {
	return &LanguageStats{Lines: make(map[string]int)}
}

// Add counts n lines for the given language. The per-language count and the
// grand total are updated together so Total always equals the sum of Lines.
func (s *LanguageStats) Add(language string, n int) {
	if s.Lines == nil {
		s.Lines = make(map[string]int)
	}
	s.Lines[language] += n
	s.Total += n
}

// Merge adds every count of other into s.
func (s *LanguageStats) Merge(other *LanguageStats) {
	if other == nil {
		return
	}
	for language, n := range other.Lines {
		s.Add(language, n)
	}
}

// Sum recomputes the total from the per-language counts.
func (s *LanguageStats) Sum() int {
	sum := 0
	for _, n := range s.Lines {
		sum += n
	}
	return sum
}
