package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/naka-gawa/github-langs/internal/config"
	"github.com/naka-gawa/github-langs/internal/domain"
	"github.com/naka-gawa/github-langs/internal/gateway"
	"github.com/naka-gawa/github-langs/internal/render"
	"github.com/naka-gawa/github-langs/internal/usecase"
)

// collect wires the gateway and the collector from cfg and runs one scan.
func collect(ctx context.Context, cfg *config.Config, logger *log.Logger) (*domain.Collection, error) {
	token, err := config.Token()
	if err != nil {
		return nil, err
	}

	// Inject dependencies and run the main business logic.
	githubGateway, err := gateway.NewGitHubGateway(token, gateway.Options{
		Account:    cfg.Account,
		UseGraphQL: cfg.API == config.APIGraphQL,
		BaseURL:    cfg.APIURL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	collector := usecase.NewCollector(githubGateway, cfg.Classifier(), usecase.Options{
		ExcludeRepos:  cfg.ExcludeRepos,
		ExcludeDirs:   cfg.ExcludeDirs,
		MatchSegments: cfg.ExcludeMatch == config.MatchSegment,
		Delay:         cfg.Delay,
	}, logger)
	return collector.Collect(ctx)
}

func palette(cfg *config.Config) render.Palette {
	return render.Palette{Colors: cfg.Card.Colors, Default: cfg.Card.DefaultColor}
}

// writeCard renders the stats and writes the card to the configured output.
func writeCard(cfg *config.Config, stats *domain.LanguageStats) error {
	doc := render.New(render.WithTitle(cfg.Card.Title)).RenderSVG(render.Items(stats, palette(cfg)))
	return render.WriteFile(cfg.Card.Output, doc)
}
