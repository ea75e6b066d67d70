// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and USERDIR_ env vars.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"github.com/okian/userdir/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// MaxBodyBytes caps request bodies read by the POST/PUT handlers.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
	// SeedUsers replaces the default starting users when set in the file.
	SeedUsers []model.User `koanf:"seed_users"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		MaxBodyBytes:      1 << 20,
		ShutdownTimeoutMS: 30_000,
		SeedUsers:         model.DefaultSeed(),
	}
}
