package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-langs/internal/config"
	"github.com/naka-gawa/github-langs/internal/report"
)

// appArchive is a zipball holding main.go (40 lines, 5 blank) and a README.
func appArchive(t *testing.T) []byte {
	t.Helper()
	var src strings.Builder
	for i := 0; i < 40; i++ {
		if i%8 == 7 {
			src.WriteString("\n")
			continue
		}
		src.WriteString("x++\n")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"me-app-0f1e2d/main.go":   src.String(),
		"me-app-0f1e2d/README.md": "# app\n\nA small app.\n",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// setupFakeGitHub serves the listing and archive endpoints under the
// enterprise prefixes and returns a config pointing at it.
func setupFakeGitHub(t *testing.T, listStatus int) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("ACCESS_TOKEN", "test-token")

	archive := appArchive(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/user/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		if listStatus != http.StatusOK {
			w.WriteHeader(listStatus)
			fmt.Fprint(w, `{"message": "Bad credentials"}`)
			return
		}
		fmt.Fprint(w, `[
			{"name":"app","full_name":"me/app","fork":false,"owner":{"login":"me"}},
			{"name":"upstream","full_name":"me/upstream","fork":true,"owner":{"login":"me"}}
		]`)
	})
	mux.HandleFunc("/api/graphql", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"data":{"viewer":{"repositories":{"pageInfo":{"hasNextPage":false,"endCursor":""},"nodes":[
			{"name":"app","nameWithOwner":"me/app","isFork":false,"owner":{"login":"me"}}
		]}}}}`)
	})
	mux.HandleFunc("/api/v3/repos/me/app/zipball", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(archive)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.APIURL = server.URL + "/api/v3/"
	cfg.Delay = 0
	cfg.Card.Output = filepath.Join(t.TempDir(), "output", "stats_langs.svg")
	return cfg
}

func TestRunRender(t *testing.T) {
	for _, api := range []string{config.APIRest, config.APIGraphQL} {
		t.Run(api, func(t *testing.T) {
			cfg := setupFakeGitHub(t, http.StatusOK)
			cfg.API = api
			var out bytes.Buffer

			err := runRender(context.Background(), cfg, log.New(io.Discard), &out)
			require.NoError(t, err)
			assert.Equal(t, "SVG Updated in "+cfg.Card.Output+"\n", out.String())

			doc, err := os.ReadFile(cfg.Card.Output)
			require.NoError(t, err)
			assert.Equal(t, 1, strings.Count(string(doc), `class="progress-item"`))
			assert.Contains(t, string(doc), `--final-width:100%; --color:#00ADD8;`)
			assert.Contains(t, string(doc), `<span class="lang">Go</span>`)
			assert.Contains(t, string(doc), `<span class="percent">100.0%</span>`)
		})
	}
}

func TestRunRender_ListingFailure(t *testing.T) {
	cfg := setupFakeGitHub(t, http.StatusUnauthorized)

	err := runRender(context.Background(), cfg, log.New(io.Discard), io.Discard)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list repositories")
	_, statErr := os.Stat(cfg.Card.Output)
	assert.True(t, os.IsNotExist(statErr), "no card is written when the listing fails")
}

func TestRunRender_MissingToken(t *testing.T) {
	cfg := setupFakeGitHub(t, http.StatusOK)
	t.Setenv("ACCESS_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	err := runRender(context.Background(), cfg, log.New(io.Discard), io.Discard)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN")
}

func TestRunStats(t *testing.T) {
	cfg := setupFakeGitHub(t, http.StatusOK)
	var out bytes.Buffer

	err := runStats(context.Background(), cfg, log.New(io.Discard), &out, true)
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, 35, r.Total)
	assert.Equal(t, []report.Language{{Name: "Go", Lines: 35, Percent: 100, Color: "#00ADD8"}}, r.Languages)
	assert.Equal(t, 2, r.Summary.Listed)
	assert.Equal(t, 1, r.Summary.Analyzed)
	require.Len(t, r.Repositories, 2)
	assert.Equal(t, "me/app", r.Repositories[0].Repository.FullName)
	assert.Equal(t, map[string]int{"Go": 35}, r.Repositories[0].Stats.Lines)
	assert.Equal(t, "fork", string(r.Repositories[1].Skip))

	_, err = os.Stat(cfg.Card.Output)
	assert.NoError(t, err, "--svg also writes the card")
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("langs.yaml", []byte("account: from-file\ndelay: 2s\n"), 0o644))
	require.NoError(t, rootCmd.ParseFlags([]string{"--config", "langs.yaml", "--api", "graphql", "--output", "card.svg"}))
	t.Cleanup(func() {
		for _, name := range []string{"config", "api", "output"} {
			f := rootCmd.PersistentFlags().Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Account)
	assert.Equal(t, config.APIGraphQL, cfg.API)
	assert.Equal(t, "card.svg", cfg.Card.Output)
	assert.Equal(t, "2s", cfg.Delay.String())
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, rootCmd.ParseFlags([]string{"--api", "soap"}))
	t.Cleanup(func() {
		f := rootCmd.PersistentFlags().Lookup("api")
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})

	_, err := loadConfig(rootCmd)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api")
}
