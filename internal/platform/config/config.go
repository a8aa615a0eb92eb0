// Copyright (c) 2026 Lurnex. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (content store, cache) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Content store backends selectable through CONTENT_STORE.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// # Configuration Schema

// Config holds all runtime configuration for the Lurnex site API.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// ContentStore selects the content backend: "postgres" or "memory".
	ContentStore string `env:"CONTENT_STORE" envDefault:"postgres"`

	// Content store (PostgreSQL JSONB documents)
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// ContentSeedPath is a JSON file of documents loaded into the memory store.
	ContentSeedPath string `env:"CONTENT_SEED_PATH"`

	// Read cache (Redis). Empty disables caching.
	RedisURL string `env:"REDIS_URL"`

	// RevalidateInterval bounds how stale a cached read may be.
	RevalidateInterval time.Duration `env:"REVALIDATE_INTERVAL" envDefault:"60s"`

	// AssetBaseURL is the CDN prefix for image asset references.
	AssetBaseURL string `env:"ASSET_BASE_URL" envDefault:"https://cdn.lurnex.com/images"`

	// Cross-Origin Resource Sharing, as a list of allowed origin suffixes.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"lurnex.com"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// validate enforces cross-field rules that struct tags cannot express.
func (c *Config) validate() error {
	c.ContentStore = strings.ToLower(strings.TrimSpace(c.ContentStore))

	switch c.ContentStore {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when CONTENT_STORE=postgres")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown CONTENT_STORE %q", c.ContentStore)
	}

	if c.RevalidateInterval <= 0 {
		return errors.New("REVALIDATE_INTERVAL must be positive")
	}

	c.AssetBaseURL = strings.TrimRight(c.AssetBaseURL, "/")
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the configured CORS origin suffixes.
func (c *Config) Origins() []string {
	return c.AllowedOrigins
}
