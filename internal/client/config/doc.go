// Package config loads runtime configuration for the console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST gateway
//	-t int      request timeout (seconds)
//	-d string   SQLite DSN of the session state
//	-i int      unread badge refresh interval (seconds)
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "30s"
// or integer nanoseconds. Absent keys keep their earlier value:
//
//	{
//	  "base_url": "http://127.0.0.1:8080/api",
//	  "request_timeout": "30s",
//	  "state_dsn": "console.db",
//	  "unread_refresh_interval": "30s",
//	  "log_level": "info",
//	  "log_format": "json"
//	}
package config
