// Package language maps archive entries to language labels and counts their lines.
package language

import (
	"path"
	"strings"
)

// Table maps a lowercase file extension (with its leading dot) to a language label.
type Table map[string]string

// HeaderRule resolves an ambiguous extension by content. Markers are checked in
// order and the first one found selects Match; text without any marker
// falls back to Fallback.
type HeaderRule struct {
	Extension string
	Markers   []string
	Match     string
	Fallback  string
}

// Resolve returns the label for the given header text.
func (r HeaderRule) Resolve(text string) string {
	for _, marker := range r.Markers {
		if strings.Contains(text, marker) {
			return r.Match
		}
	}
	return r.Fallback
}

// DefaultTable returns the built-in extension table.
func DefaultTable() Table {
	return Table{
		".go":   "Go",
		".py":   "Python",
		".js":   "JavaScript",
		".ts":   "TypeScript",
		".c":    "C",
		".cpp":  "C++",
		".rpy":  "Ren'Py",
		".java": "Java",
		".vhd":  "VHDL",
		".sol":  "Solidity",
		".sh":   "Shell",
	}
}

// DefaultHeaderRule returns the built-in rule that splits .h files between C++ and C.
func DefaultHeaderRule() HeaderRule {
	return HeaderRule{
		Extension: ".h",
		Markers:   []string{"class ", "template<", "public:", "private:", "namespace ", "iostream"},
		Match:     "C++",
		Fallback:  "C",
	}
}

// Classifier decides which language an archive entry belongs to.
type Classifier struct {
	table  Table
	header HeaderRule
}

// NewClassifier creates a Classifier. Table keys are normalised to lowercase.
func NewClassifier(table Table, header HeaderRule) *Classifier {
	normalised := make(Table, len(table))
	for ext, label := range table {
		normalised[strings.ToLower(ext)] = label
	}
	header.Extension = strings.ToLower(header.Extension)
	return &Classifier{table: normalised, header: header}
}

// Recognizes reports whether entries with ext are counted at all.
func (c *Classifier) Recognizes(ext string) bool {
	if ext == "" {
		return false
	}
	if c.header.Extension != "" && ext == c.header.Extension {
		return true
	}
	_, ok := c.table[ext]
	return ok
}

// Classify returns the label for an entry with the given extension and text.
// The second result is false for unrecognised extensions.
func (c *Classifier) Classify(ext, text string) (string, bool) {
	if c.header.Extension != "" && ext == c.header.Extension {
		return c.header.Resolve(text), true
	}
	label, ok := c.table[ext]
	return label, ok
}

// Extension returns the lowercase extension of the last element of p,
// including the dot. Leading dots of the base name never start an extension,
// so ".bashrc" has none while "archive.tar.gz" has ".gz".
func Extension(p string) string {
	base := path.Base(p)
	trimmed := strings.TrimLeft(base, ".")
	i := strings.LastIndexByte(trimmed, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(trimmed[i:])
}
