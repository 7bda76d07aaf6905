package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/pharmaintel/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gateway base URL
//	-t int      request timeout in seconds
//	-d string   session state DSN
//	-i int      unread refresh interval in seconds
//	-l string   log level
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the REST gateway")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StateDSN, "d", cfg.StateDSN, "session state DSN")
	unread := fs.Int("i", int(cfg.UnreadRefreshInterval.Seconds()), "unread badge refresh interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.UnreadRefreshInterval = time.Duration(*unread) * time.Second
}
