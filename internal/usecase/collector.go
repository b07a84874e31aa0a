// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/naka-gawa/github-langs/internal/domain"
	"github.com/naka-gawa/github-langs/internal/gateway"
	"github.com/naka-gawa/github-langs/internal/language"
)

// Options controls which repositories and archive entries are counted.
type Options struct {
	// ExcludeRepos lists owner/name identifiers that are never analysed.
	ExcludeRepos []string
	// ExcludeDirs lists names that exclude any entry whose path contains them.
	ExcludeDirs []string
	// MatchSegments restricts ExcludeDirs to whole directory names instead
	// of substrings of the path.
	MatchSegments bool
	// Delay is waited before every archive request.
	Delay time.Duration
}

// Collector is the use case for collecting language statistics.
// It walks the account's repositories one at a time and sums their lines.
type Collector struct {
	fetcher    gateway.Fetcher
	classifier *language.Classifier
	opts       Options
	logger     *log.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, classifier *language.Classifier, opts Options, logger *log.Logger) *Collector {
	return &Collector{
		fetcher:    fetcher,
		classifier: classifier,
		opts:       opts,
		logger:     logger,
		sleep:      sleepContext,
	}
}

// Collect performs the main business logic.
// Only a failed repository listing (or a cancelled context) aborts the run;
// any other failure drops the affected repository or entry and is recorded
// in the returned collection.
func (c *Collector) Collect(ctx context.Context) (*domain.Collection, error) {
	c.logger.Info("Starting GitHub scan")

	repos, err := c.fetcher.ListRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	c.logger.Debug("Usecase: repository list fetched.", "repositories", len(repos))

	collection := &domain.Collection{
		Stats:        domain.NewLanguageStats(),
		Repositories: make([]domain.RepoResult, 0, len(repos)),
	}
	analyzed := 0
	for _, repo := range repos {
		result, err := c.analyze(ctx, repo)
		if err != nil {
			return nil, err
		}
		if result.Analyzed() {
			analyzed++
			collection.Stats.Merge(result.Stats)
		}
		collection.Repositories = append(collection.Repositories, result)
	}

	c.logger.Info("Scan complete", "analyzed", analyzed, "listed", len(repos), "lines", collection.Stats.Total)
	return collection, nil
}

// analyze handles a single repository. The error is non-nil only when the
// context is done.
func (c *Collector) analyze(ctx context.Context, repo domain.Repository) (domain.RepoResult, error) {
	result := domain.RepoResult{Repository: repo}
	switch {
	case repo.Fork:
		result.Skip = domain.SkipFork
		return result, nil
	case slices.Contains(c.opts.ExcludeRepos, repo.FullName):
		result.Skip = domain.SkipExcluded
		return result, nil
	}

	if err := c.sleep(ctx, c.opts.Delay); err != nil {
		return result, err
	}
	c.logger.Info("Analyzing " + repo.FullName)

	data, err := c.fetcher.FetchArchive(ctx, repo)
	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		c.logger.Debug("Skipping repository", "repo", repo.FullName, "err", err)
		result.Skip = domain.SkipArchiveUnavailable
		result.Error = err.Error()
		return result, nil
	}

	scan, err := c.scanArchive(data)
	if err != nil {
		c.logger.Debug("Skipping repository", "repo", repo.FullName, "err", err)
		result.Skip = domain.SkipInvalidArchive
		result.Error = err.Error()
		return result, nil
	}

	result.Stats = scan.stats
	result.Entries = scan.entries
	result.EntrySkips = scan.skips
	c.logger.Debug("Analyzed repository", "repo", repo.FullName, "lines", scan.stats.Total, "entries", len(scan.entries))
	return result, nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
