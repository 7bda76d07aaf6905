package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/pharmaintel/internal/flagx"
	"github.com/dmitrijs2005/pharmaintel/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. After
// parsing, values are copied into the runtime Config.
type JsonConfig struct {
	BaseURL               string         `json:"base_url"`
	RequestTimeout        timex.Duration `json:"request_timeout"`
	StateDSN              string         `json:"state_dsn"`
	UnreadRefreshInterval timex.Duration `json:"unread_refresh_interval"`
	LogLevel              string         `json:"log_level"`
	LogFormat             string         `json:"log_format"`
}

// parseJson overlays cfg with the non-empty values of the JSON file named by
// -c or -config. Without either flag it does nothing. Read and unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.BaseURL, jc.BaseURL)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setString(&cfg.StateDSN, jc.StateDSN)
	setDuration(&cfg.UnreadRefreshInterval, jc.UnreadRefreshInterval)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
