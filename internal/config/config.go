// Package config loads the run configuration: which account to scan, what to
// exclude, how to classify files and where the card is written.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/github-langs/internal/language"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = ".github-langs.yaml"

// API backends used for the repository listing.
const (
	APIRest    = "rest"
	APIGraphQL = "graphql"
)

// Path matching modes for ExcludeDirs.
const (
	MatchSubstring = "substring"
	MatchSegment   = "segment"
)

// Config holds all github-langs configuration.
type Config struct {
	// Account whose repositories are listed. Empty means the authenticated user.
	Account string `yaml:"account"`
	API     string `yaml:"api"`
	// APIURL points the clients at a GitHub Enterprise host when set.
	APIURL string `yaml:"api_url"`

	ExcludeRepos []string `yaml:"exclude_repos"`
	ExcludeDirs  []string `yaml:"exclude_dirs"`
	ExcludeMatch string   `yaml:"exclude_match"`

	// Delay is waited before every archive request.
	Delay time.Duration `yaml:"delay"`

	Extensions map[string]string `yaml:"extensions"`
	Header     HeaderConfig      `yaml:"header"`

	Card CardConfig `yaml:"card"`
}

// HeaderConfig configures the content rule for the ambiguous header extension.
type HeaderConfig struct {
	Extension string   `yaml:"extension"`
	Markers   []string `yaml:"markers"`
	Match     string   `yaml:"match"`
	Fallback  string   `yaml:"fallback"`
}

// CardConfig configures the rendered SVG.
type CardConfig struct {
	Title        string            `yaml:"title"`
	Output       string            `yaml:"output"`
	Colors       map[string]string `yaml:"colors"`
	DefaultColor string            `yaml:"default_color"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	header := language.DefaultHeaderRule()
	return &Config{
		API:          APIRest,
		ExcludeDirs:  []string{"venv", "env", ".env", "node_modules", ".git", "__pycache__", "vendor", "dist", "build"},
		ExcludeMatch: MatchSubstring,
		Delay:        time.Second,
		Extensions:   language.DefaultTable(),
		Header: HeaderConfig{
			Extension: header.Extension,
			Markers:   header.Markers,
			Match:     header.Match,
			Fallback:  header.Fallback,
		},
		Card: CardConfig{
			Title:  "language used",
			Output: "output/stats_langs.svg",
			Colors: map[string]string{
				"Python":     "#3572A5",
				"Go":         "#00ADD8",
				"C":          "#555555",
				"C++":        "#f34b7d",
				"JavaScript": "#f1e05a",
				"Ren'Py":     "#ff7f7f",
				"Java":       "#b07219",
				"VHDL":       "#adb2cb",
				"TypeScript": "#2b7489",
				"Solidity":   "#AA6746",
				"Shell":      "#89e051",
			},
			DefaultColor: "#999999",
		},
	}
}

// Load reads the YAML file at path on top of the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.API {
	case APIRest, APIGraphQL:
	default:
		return fmt.Errorf("invalid api %q: must be %q or %q", c.API, APIRest, APIGraphQL)
	}
	switch c.ExcludeMatch {
	case MatchSubstring, MatchSegment:
	default:
		return fmt.Errorf("invalid exclude_match %q: must be %q or %q", c.ExcludeMatch, MatchSubstring, MatchSegment)
	}
	if c.Delay < 0 {
		return fmt.Errorf("invalid delay %s: must not be negative", c.Delay)
	}
	if c.Card.Output == "" {
		return errors.New("card output path must not be empty")
	}
	return nil
}

// Classifier builds the language classifier described by the config.
func (c *Config) Classifier() *language.Classifier {
	return language.NewClassifier(language.Table(c.Extensions), language.HeaderRule{
		Extension: c.Header.Extension,
		Markers:   c.Header.Markers,
		Match:     c.Header.Match,
		Fallback:  c.Header.Fallback,
	})
}

// Token returns the access token, loading a .env file from the working
// directory first when one exists. ACCESS_TOKEN wins over GITHUB_TOKEN.
func Token() (string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to load .env: %w", err)
	}
	for _, key := range []string{"ACCESS_TOKEN", "GITHUB_TOKEN"} {
		if token := os.Getenv(key); token != "" {
			return token, nil
		}
	}
	return "", errors.New("ACCESS_TOKEN or GITHUB_TOKEN environment variable is not set")
}
