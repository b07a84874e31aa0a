package domain

// SkipReason explains why a repository or an archive entry did not contribute
// to the totals. The empty reason means the unit was counted.
type SkipReason string

// Repository level reasons.
const (
	SkipFork               SkipReason = "fork"
	SkipExcluded           SkipReason = "excluded repository"
	SkipArchiveUnavailable SkipReason = "archive unavailable"
	SkipInvalidArchive     SkipReason = "invalid archive"
)

// Entry level reasons.
const (
	EntrySkipDirectory    SkipReason = "directory"
	EntrySkipExcludedPath SkipReason = "excluded path"
	EntrySkipUnrecognized SkipReason = "unrecognized extension"
	EntrySkipUnreadable   SkipReason = "unreadable"
)

// EntryResult is the outcome of scanning one archive entry.
type EntryResult struct {
	Path     string     `json:"path"`
	Language string     `json:"language,omitempty"`
	Lines    int        `json:"lines"`
	Skip     SkipReason `json:"skip,omitempty"`
}

// RepoResult is the outcome of analysing one listed repository.
// Error holds the underlying failure message for archive skips.
type RepoResult struct {
	Repository Repository         `json:"repository"`
	Skip       SkipReason         `json:"skip,omitempty"`
	Error      string             `json:"error,omitempty"`
	Stats      *LanguageStats     `json:"stats,omitempty"`
	EntrySkips map[SkipReason]int `json:"entry_skips,omitempty"`
	Entries    []EntryResult      `json:"-"`
}

// Analyzed reports whether the repository contributed to the totals.
func (r RepoResult) Analyzed() bool {
	return r.Skip == ""
}

// Collection is everything a single collector run produces.
type Collection struct {
	Stats        *LanguageStats `json:"stats"`
	Repositories []RepoResult   `json:"repositories"`
}
