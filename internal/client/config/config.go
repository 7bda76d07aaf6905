package config

import "time"

// Config holds runtime settings for the console.
//
// Fields:
//   - BaseURL: root of the REST gateway; every resource path is joined onto it.
//   - RequestTimeout: upper bound for a single HTTP round trip.
//   - StateDSN: SQLite DSN of the persistence slot (token and cached profile).
//   - UnreadRefreshInterval: how often the unread notification badge is refreshed.
//   - LogLevel / LogFormat: slog level name and handler ("text" or "json").
type Config struct {
	BaseURL               string
	RequestTimeout        time.Duration
	StateDSN              string
	UnreadRefreshInterval time.Duration
	LogLevel              string
	LogFormat             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080/api"
	c.RequestTimeout = 30 * time.Second
	c.StateDSN = "console.db"
	c.UnreadRefreshInterval = 30 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	cfg.normalize()
	return cfg
}

// normalize restores the default for durations that must be positive.
func (c *Config) normalize() {
	var d Config
	d.LoadDefaults()
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.UnreadRefreshInterval <= 0 {
		c.UnreadRefreshInterval = d.UnreadRefreshInterval
	}
}
