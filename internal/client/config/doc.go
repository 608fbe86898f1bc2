// Package config loads runtime configuration for the comic reader client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in .yaml
//     or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-d string   local database path
//	-t int      request timeout (seconds)
//	-n int      near-expiry refresh threshold (seconds)
//	-l string   log level
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	server_base_url: http://127.0.0.1:8080
//	database_path: comicreader.db
//	request_timeout: 10s
//	bootstrap_timeout: 30s
//	logout_timeout: 5s
//	near_expiry_threshold: 1h
//	search_debounce: 300ms
//	bookmark_filter_debounce: 500ms
//	log_level: info
//
// Environment variables are not consulted.
package config
