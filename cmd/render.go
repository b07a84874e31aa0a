package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-langs/internal/config"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Scans the account and writes the SVG language card",
	Long: `Scans every repository of the account, aggregates the non-empty lines per
language and writes the animated language card (default output/stats_langs.svg).`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger := newLogger(os.Stderr, verbose)

		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		if err := runRender(cmd.Context(), cfg, logger, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render language card: %v\n", err)
			os.Exit(1)
		}
	},
}

func runRender(ctx context.Context, cfg *config.Config, logger *log.Logger, out io.Writer) error {
	collection, err := collect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := writeCard(cfg, collection.Stats); err != nil {
		return err
	}
	fmt.Fprintf(out, "SVG Updated in %s\n", cfg.Card.Output)
	return nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
