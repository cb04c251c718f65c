package config

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "FRONTEND_URL", "UPLOAD_DIR", "MAX_UPLOAD_SIZE",
		"RETENTION_WINDOW", "SWEEP_INTERVAL", "API_KEY",
		"RATE_LIMIT", "RATE_WINDOW", "ENV", "LOG_FORMAT", "LOG_LEVEL",
	} {
		t.Setenv(key, "") // registers restore on cleanup
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "*", cfg.FrontendURL)
	assert.Equal(t, "public/videos", cfg.UploadDir)
	assert.Equal(t, int64(100*1024*1024), cfg.MaxUploadSize)
	assert.Equal(t, 24*time.Hour, cfg.RetentionWindow)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, 15*time.Minute, cfg.RateWindow)
	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.Development())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("UPLOAD_DIR", "/tmp/videos")
	t.Setenv("MAX_UPLOAD_SIZE", "1048576")
	t.Setenv("RETENTION_WINDOW", "1s")
	t.Setenv("SWEEP_INTERVAL", "100ms")
	t.Setenv("API_KEY", "s3cret")
	t.Setenv("ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/tmp/videos", cfg.UploadDir)
	assert.Equal(t, int64(1048576), cfg.MaxUploadSize)
	assert.Equal(t, time.Second, cfg.RetentionWindow)
	assert.Equal(t, 100*time.Millisecond, cfg.SweepInterval)
	assert.Equal(t, "s3cret", cfg.APIKey)
	assert.True(t, cfg.Development())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("port out of range", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "70000")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("non-positive upload size", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAX_UPLOAD_SIZE", "0")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("malformed duration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RETENTION_WINDOW", "yesterday")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestConfig_String_MasksAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "super-secret-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotContains(t, cfg.String(), "super-secret-key")
}

func TestConfig_NewLogger(t *testing.T) {
	tests := []struct {
		format string
		level  string
		want   slog.Level
	}{
		{"text", "debug", slog.LevelDebug},
		{"json", "info", slog.LevelInfo},
		{"text", "warn", slog.LevelWarn},
		{"json", "error", slog.LevelError},
		{"text", "bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogFormat: tt.format, LogLevel: tt.level}
		logger := cfg.NewLogger()
		require.NotNil(t, logger)
		assert.True(t, logger.Enabled(context.Background(), tt.want))
		if tt.want > slog.LevelDebug {
			assert.False(t, logger.Enabled(context.Background(), tt.want-4))
		}
	}
}
