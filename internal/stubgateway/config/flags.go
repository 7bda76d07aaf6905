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
//	-a string   listen address (e.g., ":8080")
//	-k string   JWT HMAC signing key
//	-s string   seed accounts (email:password:ROLE,...)
//	-t int      access token validity, minutes
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to listen on")
	fs.StringVar(&config.SigningKey, "k", config.SigningKey, "token signing key")
	fs.StringVar(&config.Accounts, "s", config.Accounts, "seed accounts")
	validity := fs.Int("t", int(config.TokenValidity.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidity = time.Duration(*validity) * time.Minute
}
