package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/comicreader/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   backend base URL
//	-d string   local database path
//	-t int      request timeout (seconds)
//	-n int      near-expiry refresh threshold (seconds)
//	-l string   log level
//
// Arguments not listed here are filtered out with flagx.FilterArgs so other
// parsers can share the command line.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-n", "-l"})

	fs := flag.NewFlagSet("comicreader", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "backend base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	threshold := fs.Int("n", int(cfg.NearExpiryThreshold.Seconds()), "near-expiry threshold (in seconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// -t and -n only apply when given; otherwise the file or default value
	// is kept at its full precision.
	var err error
	fs.Visit(func(f *flag.Flag) {
		switch {
		case err != nil:
		case f.Name == "t":
			if *timeout <= 0 {
				err = fmt.Errorf("parse flags: request timeout must be positive, got %d", *timeout)
				return
			}
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case f.Name == "n":
			if *threshold < 0 {
				err = fmt.Errorf("parse flags: near-expiry threshold must not be negative, got %d", *threshold)
				return
			}
			cfg.NearExpiryThreshold = time.Duration(*threshold) * time.Second
		}
	})
	return err
}
