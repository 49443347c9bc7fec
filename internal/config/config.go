// Package config loads process settings from environment variables.
// Flags in cmd/bot override whatever Load returns.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the runtime settings of the bot process.
type Config struct {
	Env         string // "dev" or "prod"
	LogLevel    string // "debug", "info", etc.
	WorkDir     string // where .env, config.* and the image live
	ImagePath   string // relative paths resolve against WorkDir
	PollTimeout time.Duration
	MetricsAddr string // empty disables the metrics listener
}

// Load reads the BOT_* environment variables, with defaults.
func Load() *Config {
	return &Config{
		Env:         GetEnv("BOT_ENV", "prod"),
		LogLevel:    GetEnv("BOT_LOG_LEVEL", "info"),
		WorkDir:     GetEnv("BOT_WORKDIR", "."),
		ImagePath:   GetEnv("BOT_IMAGE", "TG.png"),
		PollTimeout: GetEnvDuration("BOT_POLL_TIMEOUT", 10*time.Second),
		MetricsAddr: GetEnv("BOT_METRICS_ADDR", ""),
	}
}

// Image returns ImagePath resolved against WorkDir.
func (c *Config) Image() string {
	if filepath.IsAbs(c.ImagePath) {
		return c.ImagePath
	}
	return filepath.Join(c.WorkDir, c.ImagePath)
}

// GetEnv returns the environment variable value for key, or def if unset or empty.
func GetEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvDuration returns the environment variable value for key parsed as time.Duration, or def if unset or invalid.
func GetEnvDuration(key string, def time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return def
}
