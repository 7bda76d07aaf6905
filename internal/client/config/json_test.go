package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"base_url":                "http://www.example:9000/api",
		"request_timeout":         "10s",
		"state_dsn":               "state.db",
		"unread_refresh_interval": 2000000000,
		"log_level":               "info",
		"log_format":              "json",
	})
	partial := writeTempJSON(t, dir, "partial.json", map[string]any{
		"log_level": "error",
	})

	t.Run("loads every field", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", full}

		cfg := &Config{}
		parseJson(cfg)

		assert.Empty(t, cmp.Diff(&Config{
			BaseURL:               "http://www.example:9000/api",
			RequestTimeout:        10 * time.Second,
			StateDSN:              "state.db",
			UnreadRefreshInterval: 2 * time.Second,
			LogLevel:              "info",
			LogFormat:             "json",
		}, cfg))
	})

	t.Run("absent keys keep defaults", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, "http://127.0.0.1:8080/api", cfg.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	})

	t.Run("no flags, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{BaseURL: "http://defaults/api", UnreadRefreshInterval: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "http://defaults/api", cfg.BaseURL)
		assert.Equal(t, 42*time.Second, cfg.UnreadRefreshInterval)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "nope.json")}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
