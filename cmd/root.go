// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-langs/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "github-langs",
	Short: "A CLI tool to render the languages used across a GitHub account.",
	Long: `github-langs downloads every non-fork repository of a GitHub account,
counts the non-empty lines of each recognised source file and renders an
animated SVG card of the language shares.

The access token is read from ACCESS_TOKEN (or GITHUB_TOKEN), optionally
through a .env file in the working directory.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringP("account", "a", "", "GitHub account to scan (default: the token's user)")
	rootCmd.PersistentFlags().String("api", "", "API used to list repositories: rest or graphql")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Path of the SVG card")
	rootCmd.PersistentFlags().Duration("delay", 0, "Pause before each archive download (e.g. 1s)")
}

// newLogger creates the progress logger. Progress goes to w at info level;
// verbose enables the per-repository and per-page debug output.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// loadConfig reads the config file and applies the command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if flags.Changed("account") {
		cfg.Account, _ = flags.GetString("account")
	}
	if flags.Changed("api") {
		cfg.API, _ = flags.GetString("api")
	}
	if flags.Changed("output") {
		cfg.Card.Output, _ = flags.GetString("output")
	}
	if flags.Changed("delay") {
		cfg.Delay, _ = flags.GetDuration("delay")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
