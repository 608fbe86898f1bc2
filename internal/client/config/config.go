package config

import (
	"time"
)

// Config holds runtime settings for the comic reader client.
type Config struct {
	// ServerBaseURL is the comic backend root, e.g. http://host:8080.
	ServerBaseURL string
	// DatabasePath is the SQLite file holding the persisted credential.
	DatabasePath string
	// RequestTimeout bounds every single REST call.
	RequestTimeout time.Duration
	// BootstrapTimeout bounds the whole cold-start sequence.
	BootstrapTimeout time.Duration
	// LogoutTimeout bounds the best-effort remote logout.
	LogoutTimeout time.Duration
	// NearExpiryThreshold is the remaining lifetime below which a stored
	// credential is refreshed on start.
	NearExpiryThreshold time.Duration
	// SearchDebounce is the quiet period before a search request is sent.
	SearchDebounce time.Duration
	// BookmarkFilterDebounce is the quiet period before the bookmark list is filtered.
	BookmarkFilterDebounce time.Duration
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://103.116.52.147:8080"
	c.DatabasePath = "comicreader.db"
	c.RequestTimeout = 10 * time.Second
	c.BootstrapTimeout = 30 * time.Second
	c.LogoutTimeout = 5 * time.Second
	c.NearExpiryThreshold = 3600 * time.Second
	c.SearchDebounce = 300 * time.Millisecond
	c.BookmarkFilterDebounce = 500 * time.Millisecond
	c.LogLevel = "info"
}

// LoadConfig constructs a Config from defaults, then the config file named by
// -c/-config (if any), then command-line flags. Later sources take precedence.
// args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
