package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080/api", c.BaseURL)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, "console.db", c.StateDSN)
	assert.Equal(t, 30*time.Second, c.UnreadRefreshInterval)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080/api", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.UnreadRefreshInterval)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"base_url":        "http://json.example/api",
		"request_timeout": "5s",
		"log_format":      "json",
	})
	os.Args = []string{"testbin", "-c", path, "-a", "http://flag.example/api", "-i", "7"}

	cfg := LoadConfig()

	assert.Equal(t, "http://flag.example/api", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 7*time.Second, cfg.UnreadRefreshInterval)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "console.db", cfg.StateDSN)
}

func TestLoadConfig_NonPositiveDurationsFallBack(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name string
		args func(t *testing.T) []string
	}{
		{"zero flag", func(*testing.T) []string { return []string{"testbin", "-i", "0", "-t", "0"} }},
		{"negative flag", func(*testing.T) []string { return []string{"testbin", "-i=-5", "-t=-1"} }},
		{"zero json", func(t *testing.T) []string {
			path := writeTempJSON(t, "", "", map[string]any{
				"request_timeout":         "0s",
				"unread_refresh_interval": "0s",
			})
			return []string{"testbin", "-c", path}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args(t)

			cfg := LoadConfig()

			assert.Equal(t, 30*time.Second, cfg.UnreadRefreshInterval)
			assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
		})
	}
}
