package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-langs/internal/config"
	"github.com/naka-gawa/github-langs/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Scans the account and outputs the language stats as JSON",
	Long: `Scans every repository of the account and prints the per-language line counts,
the outcome of every repository and a short summary in JSON format.
Use --svg to also write the language card.`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger := newLogger(os.Stderr, verbose)
		withCard, _ := cmd.Flags().GetBool("svg")

		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		if err := runStats(cmd.Context(), cfg, logger, os.Stdout, withCard); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate stats: %v\n", err)
			os.Exit(1)
		}
	},
}

func runStats(ctx context.Context, cfg *config.Config, logger *log.Logger, out io.Writer, withCard bool) error {
	collection, err := collect(ctx, cfg, logger)
	if err != nil {
		return err
	}

	results, err := report.Build(collection, palette(cfg))
	if err != nil {
		return err
	}

	// Marshal the results into a pretty-printed JSON string.
	jsonData, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	fmt.Fprintln(out, string(jsonData))

	if withCard {
		if err := writeCard(cfg, collection.Stats); err != nil {
			return err
		}
		logger.Info("SVG Updated in " + cfg.Card.Output)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Bool("svg", false, "Also write the SVG language card")
}
