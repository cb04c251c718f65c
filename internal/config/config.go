// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port        int    `env:"PORT, default=5000" json:"port" validate:"min=1,max=65535"`
	FrontendURL string `env:"FRONTEND_URL, default=*" json:"frontend_url"`

	// Storage settings
	UploadDir     string `env:"UPLOAD_DIR, default=public/videos" json:"upload_dir" validate:"required"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE, default=104857600" json:"max_upload_size" validate:"min=1"`

	// Retention settings
	RetentionWindow time.Duration `env:"RETENTION_WINDOW, default=24h" json:"retention_window" validate:"min=1"`
	SweepInterval   time.Duration `env:"SWEEP_INTERVAL, default=1h" json:"sweep_interval" validate:"min=1"`

	// Access settings
	APIKey     string        `env:"API_KEY" json:"-"` // Masked in JSON
	RateLimit  int           `env:"RATE_LIMIT, default=100" json:"rate_limit" validate:"min=1"`
	RateWindow time.Duration `env:"RATE_WINDOW, default=15m" json:"rate_window" validate:"min=1"`

	// Logging settings
	Environment string `env:"ENV, default=production" json:"environment"`
	LogFormat   string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel    string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// Load reads configuration from a .env file (when present) and the
// environment using go-envconfig, then validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := &Config{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Development returns true when the service runs in development mode.
// Error detail is only exposed to clients in development.
func (c *Config) Development() bool {
	return strings.EqualFold(c.Environment, "development")
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, UploadDir: %s, MaxUploadSize: %d, RetentionWindow: %s, SweepInterval: %s, RateLimit: %d, RateWindow: %s, Environment: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.UploadDir,
		c.MaxUploadSize,
		c.RetentionWindow,
		c.SweepInterval,
		c.RateLimit,
		c.RateWindow,
		c.Environment,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
