// Package config provides configuration management for leadflow.
package config

import (
	"fmt"
	"net/url"
)

// Config holds runtime configuration for the leadflow engine and CLI.
type Config struct {
	DatabaseURL string
	LogLevel    string
	LogFormat   string
}

// DefaultConfig returns configuration with default values. The database
// URL defaults to a local SQLite file so a fresh checkout works without
// any infrastructure.
func DefaultConfig() *Config {
	return &Config{
		DatabaseURL: "sqlite://leadflow.db",
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

// validateConfig checks enumerated values and the database URL scheme.
func validateConfig(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log_format must be json or console; got %q", cfg.LogFormat)
	}

	if cfg.DatabaseURL != "" {
		u, err := url.Parse(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("invalid database_url: %w", err)
		}
		if u.Scheme != "sqlite" && u.Scheme != "postgres" {
			return fmt.Errorf("database_url scheme must be sqlite or postgres; got %q", u.Scheme)
		}
	}

	return nil
}
