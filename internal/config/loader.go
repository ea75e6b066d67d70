package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/userdir/internal/domain/model"
)

// EnvPrefix is the prefix for every environment override.
const EnvPrefix = "USERDIR_"

// ConfigPathEnv names the optional YAML file.
const ConfigPathEnv = EnvPrefix + "CONFIG"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if USERDIR_CONFIG is set
//  3. env (prefix USERDIR_)
func Load(_ context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(ConfigPathEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// USERDIR_MAX_BODY_BYTES -> max_body_bytes. Underscores are kept to
	// match the flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	// A seed list in the file replaces the defaults rather than merging
	// element by element.
	seedGiven := k.Exists("seed_users")
	if seedGiven {
		cfg.SeedUsers = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	// seed_users: [] means an empty directory; nil would mean the defaults.
	if seedGiven && cfg.SeedUsers == nil {
		cfg.SeedUsers = []model.User{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields the service cannot start without.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	if c.ShutdownTimeoutMS <= 0 {
		return fmt.Errorf("%w: shutdown_timeout_ms must be positive", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.SeedUsers))
	for i, u := range c.SeedUsers {
		if u.Name == "" {
			return fmt.Errorf("%w: seed_users[%d] has no name", ErrInvalidConfig, i)
		}
		if _, dup := seen[u.Name]; dup {
			return fmt.Errorf("%w: seed_users has duplicate name %q", ErrInvalidConfig, u.Name)
		}
		seen[u.Name] = struct{}{}
	}
	return nil
}
