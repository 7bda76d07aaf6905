package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/pharmaintel/internal/flagx"
	"github.com/dmitrijs2005/pharmaintel/internal/timex"
)

// JsonConfig is the on-disk shape; token_validity accepts "30m" or integer
// nanoseconds.
type JsonConfig struct {
	ListenAddr    string         `json:"listen_addr"`
	SigningKey    string         `json:"signing_key"`
	TokenValidity timex.Duration `json:"token_validity"`
	Accounts      string         `json:"accounts"`
	LogLevel      string         `json:"log_level"`
}

// parseJson overlays config with the non-empty values of the file named by
// -c or -config. Errors panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ListenAddr != "" {
		config.ListenAddr = c.ListenAddr
	}
	if c.SigningKey != "" {
		config.SigningKey = c.SigningKey
	}
	if c.TokenValidity.Duration != 0 {
		config.TokenValidity = c.TokenValidity.Duration
	}
	if c.Accounts != "" {
		config.Accounts = c.Accounts
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
