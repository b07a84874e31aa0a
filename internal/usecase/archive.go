package usecase

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/naka-gawa/github-langs/internal/domain"
	"github.com/naka-gawa/github-langs/internal/language"
)

type archiveScan struct {
	stats   *domain.LanguageStats
	entries []domain.EntryResult
	skips   map[domain.SkipReason]int
}

// scanArchive counts the lines of every recognised entry of a zip archive.
// It fails only when the archive itself cannot be opened.
func (c *Collector) scanArchive(data []byte) (*archiveScan, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	scan := &archiveScan{
		stats:   domain.NewLanguageStats(),
		entries: make([]domain.EntryResult, 0, len(zr.File)),
		skips:   make(map[domain.SkipReason]int),
	}
	root := archiveRoot(zr.File)
	for _, f := range zr.File {
		entry := c.scanEntry(f, strings.TrimPrefix(f.Name, root))
		if entry.Skip != "" {
			scan.skips[entry.Skip]++
		} else {
			scan.stats.Add(entry.Language, entry.Lines)
		}
		scan.entries = append(scan.entries, entry)
	}
	return scan, nil
}

func (c *Collector) scanEntry(f *zip.File, rel string) domain.EntryResult {
	entry := domain.EntryResult{Path: f.Name}
	if f.FileInfo().IsDir() {
		entry.Skip = domain.EntrySkipDirectory
		return entry
	}
	if c.excludedPath(rel) {
		entry.Skip = domain.EntrySkipExcludedPath
		return entry
	}

	ext := language.Extension(f.Name)
	if !c.classifier.Recognizes(ext) {
		entry.Skip = domain.EntrySkipUnrecognized
		return entry
	}

	data, err := readEntry(f)
	if err != nil {
		c.logger.Debug("Skipping unreadable entry", "path", f.Name, "err", err)
		entry.Skip = domain.EntrySkipUnreadable
		return entry
	}

	text := language.Decode(data)
	entry.Language, _ = c.classifier.Classify(ext, text)
	entry.Lines = language.CountLines(text)
	return entry
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// excludedPath matches rel against ExcludeDirs. In substring mode any
// occurrence counts, so "vendor" also excludes "vendorized/x.go" and
// "dist" excludes "distance.py".
func (c *Collector) excludedPath(rel string) bool {
	if c.opts.MatchSegments {
		segments := strings.Split(rel, "/")
		for _, dir := range segments[:len(segments)-1] {
			for _, excluded := range c.opts.ExcludeDirs {
				if dir == excluded {
					return true
				}
			}
		}
		return false
	}
	for _, excluded := range c.opts.ExcludeDirs {
		if strings.Contains(rel, excluded) {
			return true
		}
	}
	return false
}

// archiveRoot returns the top-level folder shared by every entry, including
// its trailing slash. GitHub wraps zipballs in an "owner-repo-sha/" folder
// that is not part of the repository tree.
func archiveRoot(files []*zip.File) string {
	root := ""
	for i, f := range files {
		first, _, found := strings.Cut(f.Name, "/")
		if !found {
			return ""
		}
		if i == 0 {
			root = first
		} else if first != root {
			return ""
		}
	}
	if root == "" {
		return ""
	}
	return root + "/"
}
