package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/comicreader/internal/flagx"
	"github.com/dmitrijs2005/comicreader/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Only keys present
// in the file override the current values.
type FileConfig struct {
	ServerBaseURL          *string         `json:"server_base_url" yaml:"server_base_url"`
	DatabasePath           *string         `json:"database_path" yaml:"database_path"`
	RequestTimeout         *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	BootstrapTimeout       *timex.Duration `json:"bootstrap_timeout" yaml:"bootstrap_timeout"`
	LogoutTimeout          *timex.Duration `json:"logout_timeout" yaml:"logout_timeout"`
	NearExpiryThreshold    *timex.Duration `json:"near_expiry_threshold" yaml:"near_expiry_threshold"`
	SearchDebounce         *timex.Duration `json:"search_debounce" yaml:"search_debounce"`
	BookmarkFilterDebounce *timex.Duration `json:"bookmark_filter_debounce" yaml:"bookmark_filter_debounce"`
	LogLevel               *string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the file named by -c/-config. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *fc.ServerBaseURL
	}
	if fc.DatabasePath != nil {
		cfg.DatabasePath = *fc.DatabasePath
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.BootstrapTimeout != nil {
		cfg.BootstrapTimeout = fc.BootstrapTimeout.Duration
	}
	if fc.LogoutTimeout != nil {
		cfg.LogoutTimeout = fc.LogoutTimeout.Duration
	}
	if fc.NearExpiryThreshold != nil {
		cfg.NearExpiryThreshold = fc.NearExpiryThreshold.Duration
	}
	if fc.SearchDebounce != nil {
		cfg.SearchDebounce = fc.SearchDebounce.Duration
	}
	if fc.BookmarkFilterDebounce != nil {
		cfg.BookmarkFilterDebounce = fc.BookmarkFilterDebounce.Duration
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
}
