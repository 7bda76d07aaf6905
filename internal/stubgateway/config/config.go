// Package config handles configuration for the stub gateway, including
// defaults, JSON overlay, and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds runtime settings for the stub gateway.
//
// Fields:
//   - ListenAddr: bind address of the HTTP listener.
//   - SigningKey: HMAC secret for HS256 access tokens. Do not use test defaults in prod.
//   - TokenValidity: access token lifetime.
//   - Accounts: seed accounts, "email:password:ROLE" entries separated by commas.
//   - LogLevel: slog level name.
type Config struct {
	ListenAddr    string
	SigningKey    string
	TokenValidity time.Duration
	Accounts      string
	LogLevel      string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.SigningKey = "stub-secret-key"
	c.TokenValidity = 30 * time.Minute
	c.Accounts = "admin@example.com:admin:ADMIN,analyst@example.com:analyst:ANALYST,exec@example.com:exec:EXECUTIVE"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

type SeedAccount struct {
	Email    string
	Password string
	Role     string
}

// SeedAccounts parses Accounts.
func (c *Config) SeedAccounts() ([]SeedAccount, error) {
	var out []SeedAccount
	for _, entry := range strings.Split(c.Accounts, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, fmt.Errorf("invalid seed account %q: want email:password:ROLE", entry)
		}
		out = append(out, SeedAccount{Email: parts[0], Password: parts[1], Role: strings.ToUpper(parts[2])})
	}
	return out, nil
}
