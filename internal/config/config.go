// Package config reads process configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/fx"
)

// Config is the process-wide configuration.
type Config struct {
	Environment     string
	HTTPAddr        string
	DatabaseDSN     string
	RefreshInterval time.Duration
	SeedDemoData    bool
}

// FromEnv builds a Config from environment variables with OSS defaults.
func FromEnv() Config {
	cfg := Config{
		Environment:     envOr("REVHUB_ENV", "development"),
		HTTPAddr:        envOr("REVHUB_HTTP_ADDR", ":8080"),
		DatabaseDSN:     os.Getenv("REVHUB_DATABASE_DSN"),
		RefreshInterval: 5 * time.Minute,
		SeedDemoData:    true,
	}
	if raw := os.Getenv("REVHUB_REFRESH_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.RefreshInterval = d
		}
	}
	if raw := os.Getenv("REVHUB_SEED_DEMO_DATA"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.SeedDemoData = v
		}
	}
	return cfg
}

// IsProduction reports whether the process runs in production mode.
func (c Config) IsProduction() bool { return c.Environment == "production" }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Module("config",
	fx.Provide(FromEnv),
)
