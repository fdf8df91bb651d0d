package config

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("SEMLENS_LOG_LEVEL", "")
	t.Setenv("SEMLENS_LOG_FORMAT", "")
	t.Setenv("SEMLENS_ADAPTER", "")
	t.Setenv("SEMLENS_CASE_SENSITIVE", "")
	t.Setenv("SEMLENS_FAIL_ON_MISSING_CATALOG_ENTRY", "")

	cfg := LoadFromEnv()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "postgres", cfg.Adapter)
	assert.True(t, cfg.CaseSensitiveMatching)
	assert.True(t, cfg.FailOnMissingCatalogEntry)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("SEMLENS_LOG_LEVEL", "debug")
	t.Setenv("SEMLENS_LOG_FORMAT", "json")
	t.Setenv("SEMLENS_ADAPTER", "snowflake")
	t.Setenv("SEMLENS_CASE_SENSITIVE", "false")
	t.Setenv("SEMLENS_FAIL_ON_MISSING_CATALOG_ENTRY", "false")

	cfg := LoadFromEnv()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "snowflake", cfg.Adapter)
	assert.False(t, cfg.CaseSensitiveMatching)
	assert.False(t, cfg.FailOnMissingCatalogEntry)
}

func TestLoadFromEnvMalformedBool(t *testing.T) {
	t.Setenv("SEMLENS_CASE_SENSITIVE", "maybe")

	cfg := LoadFromEnv()
	assert.True(t, cfg.CaseSensitiveMatching)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "SEMLENS_CASE_SENSITIVE")
	assert.Contains(t, cfg.Warnings[0], `"maybe"`)
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.level}
			assert.Equal(t, tt.want, cfg.SlogLevel())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "info", LogFormat: "json"}
	cfg.NewLogger(&buf).Info("hello", "answer", 42)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"answer":42`)

	buf.Reset()
	cfg = &Config{LogLevel: "warn", LogFormat: "text"}
	logger := cfg.NewLogger(&buf)
	logger.Info("dropped")
	logger.Warn("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
