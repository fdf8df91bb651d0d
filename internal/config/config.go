// Package config handles compiler configuration and environment loading.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds the CLI-level configuration of the compiler.
type Config struct {
	LogLevel  string // log level: debug, info, warn, error (default "info")
	LogFormat string // log output format: "text" or "json" (default "text")

	// Adapter is the default warehouse adapter kind for compile runs.
	Adapter string

	// CaseSensitiveMatching selects strict catalog key matching (default true).
	CaseSensitiveMatching bool
	// FailOnMissingCatalogEntry aborts runs on unresolved catalog lookups
	// (default true).
	FailOnMissingCatalogEntry bool

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// LoadFromEnv loads configuration from environment variables, applying
// defaults for anything unset. Malformed values fall back to the default and
// are reported as warnings.
func LoadFromEnv() *Config {
	cfg := &Config{
		LogLevel:                  os.Getenv("SEMLENS_LOG_LEVEL"),
		LogFormat:                 os.Getenv("SEMLENS_LOG_FORMAT"),
		Adapter:                   os.Getenv("SEMLENS_ADAPTER"),
		CaseSensitiveMatching:     true,
		FailOnMissingCatalogEntry: true,
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.Adapter == "" {
		cfg.Adapter = "postgres"
	}

	cfg.CaseSensitiveMatching = envBool(cfg, "SEMLENS_CASE_SENSITIVE", cfg.CaseSensitiveMatching)
	cfg.FailOnMissingCatalogEntry = envBool(cfg, "SEMLENS_FAIL_ON_MISSING_CATALOG_ENTRY", cfg.FailOnMissingCatalogEntry)
	return cfg
}

func envBool(cfg *Config, name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid %s %q, using %v", name, v, fallback))
		return fallback
	}
	return parsed
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger in the configured format and level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
