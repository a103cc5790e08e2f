// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package config loads the portal API settings from the environment with
// caarlos0/env. Outside containers a dotenv file is read first through
// joho/godotenv; variables already set in the process always win.
//
// The inactivity policy lives here: SESSION_TIMEOUT (20m) and
// SESSION_WARNING_LEAD (1m) feed the session manager, and SESSION_STORE_TTL
// bounds how long a signed-in user survives in Redis without activity.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the CollabConnect API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) for session users and reset tokens
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for access token signing
	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH,required"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"12h"`

	// Inactivity policy
	SessionTimeout     time.Duration `env:"SESSION_TIMEOUT"      envDefault:"20m"`
	SessionWarningLead time.Duration `env:"SESSION_WARNING_LEAD" envDefault:"1m"`
	SessionStoreTTL    time.Duration `env:"SESSION_STORE_TTL"    envDefault:"12h"`

	// Portal surfaces the route guard redirects to
	LoginPath   string `env:"LOGIN_PATH"   envDefault:"/"`
	DefaultPath string `env:"DEFAULT_PATH" envDefault:"/dashboard"`

	// Observability
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	// Cross-Origin Resource Sharing
	OriginSuffix string   `env:"ORIGIN_SUFFIX" envDefault:"collabconnect.app"`
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load reads the optional env files, then parses environment variables into
// a validated [Config]. Missing env files are skipped.
func Load(envFiles ...string) (*Config, error) {

	// Populate the process environment from local files without overriding it
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to read %s: %w", file, err)
		}
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.SessionTimeout <= 0 {
		return fmt.Errorf("config: SESSION_TIMEOUT must be positive, got %s", c.SessionTimeout)
	}
	if c.SessionWarningLead < 0 || c.SessionWarningLead >= c.SessionTimeout {
		return fmt.Errorf("config: SESSION_WARNING_LEAD (%s) must be in [0, SESSION_TIMEOUT=%s)", c.SessionWarningLead, c.SessionTimeout)
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("config: ACCESS_TOKEN_TTL must be positive, got %s", c.AccessTokenTTL)
	}
	if c.SessionStoreTTL < c.SessionTimeout {
		return fmt.Errorf("config: SESSION_STORE_TTL (%s) must not be shorter than SESSION_TIMEOUT (%s)", c.SessionStoreTTL, c.SessionTimeout)
	}
	if !strings.HasPrefix(c.LoginPath, "/") || !strings.HasPrefix(c.DefaultPath, "/") {
		return errors.New("config: LOGIN_PATH and DEFAULT_PATH must be absolute paths")
	}
	if c.LoginPath == c.DefaultPath {
		return errors.New("config: LOGIN_PATH and DEFAULT_PATH must differ")
	}
	switch c.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("config: unknown ENVIRONMENT %q", c.Environment)
	}
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

// AllowsOrigin reports whether a browser origin may call the API with
// credentials: the OriginSuffix domain or any subdomain of it, or an exact
// EXTRA_ORIGINS entry.
func (c *Config) AllowsOrigin(origin string) bool {
	for _, extra := range c.ExtraOrigins {
		if strings.TrimSpace(extra) == origin {
			return true
		}
	}

	if c.OriginSuffix == "" {
		return false
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := parsed.Hostname()
	return host == c.OriginSuffix || strings.HasSuffix(host, "."+c.OriginSuffix)
}
