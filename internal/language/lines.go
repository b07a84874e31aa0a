package language

import "strings"

// Decode converts raw file bytes to text, dropping invalid UTF-8 sequences.
func Decode(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

// CountLines returns the number of lines in text that are not blank after
// trimming surrounding whitespace.
func CountLines(text string) int {
	n := 0
	for _, line := range strings.FieldsFunc(text, isLineBoundary) {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// isLineBoundary matches the universal line boundaries, so "\r\n" splits
// into an empty field that FieldsFunc drops.
func isLineBoundary(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
