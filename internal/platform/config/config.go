// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	for _, problem := range cfg.Validate() {
	    log.Warn(problem)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (limiter, token service, CORS) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Sparsh-bit/portfolio/internal/platform/constants"
)

// # Configuration Schema

// Config holds all runtime configuration for the portfolio API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Key-Value Cache (Redis). Optional: rate-limit counters stay in memory when empty.
	RedisURL string `env:"REDIS_URL"`

	// Demo accounts seeded into the in-memory user store
	SeedDemoUsers     bool   `env:"SEED_DEMO_USERS"     envDefault:"true"`
	DemoAdminPassword string `env:"DEMO_ADMIN_PASSWORD"`
	DemoUserPassword  string `env:"DEMO_USER_PASSWORD"`

	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	JWT       JWTConfig       `envPrefix:"JWT_"`
	CORS      CORSConfig      `envPrefix:"CORS_"`
}

// RateLimitConfig holds the fixed-window thresholds of every rate-limit class.
type RateLimitConfig struct {
	WindowMS    int64 `env:"WINDOW_MS"    envDefault:"60000"`
	MaxRequests int   `env:"MAX_REQUESTS" envDefault:"100"`

	AuthWindowMS    int64 `env:"AUTH_WINDOW_MS"    envDefault:"900000"`
	AuthMaxRequests int   `env:"AUTH_MAX_REQUESTS" envDefault:"5"`

	ContactWindowMS    int64 `env:"CONTACT_WINDOW_MS"    envDefault:"3600000"`
	ContactMaxRequests int   `env:"CONTACT_MAX_REQUESTS" envDefault:"3"`

	// CleanupInterval is how often expired in-memory windows are swept.
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1m"`
}

// JWTConfig holds token signing parameters.
type JWTConfig struct {
	Secret        string   `env:"SECRET"`
	Issuer        string   `env:"ISSUER"         envDefault:"portfolio-api"`
	Audience      string   `env:"AUDIENCE"       envDefault:"portfolio-client"`
	Algorithm     string   `env:"ALGORITHM"      envDefault:"HS256"`
	AccessExpiry  Duration `env:"ACCESS_EXPIRY"  envDefault:"15m"`
	RefreshExpiry Duration `env:"REFRESH_EXPIRY" envDefault:"7d"`
}

// CORSConfig holds the cross-origin allow-list.
type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	Credentials    bool     `env:"CREDENTIALS"     envDefault:"true"`
	MaxAge         int      `env:"MAX_AGE"         envDefault:"86400"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
//
// Rate-limit settings that would disable limiting or stall the sweep are
// rejected here, so they are fatal in every environment.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.RateLimit.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid rate limit settings: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the configured allow-list, or the local development defaults when unset.
func (c CORSConfig) Origins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return append([]string(nil), constants.DefaultCORSOrigins...)
	}
	return origins
}

// Policy returns the window and threshold for a rate-limit class.
// Unknown classes resolve to the global policy.
func (c RateLimitConfig) Policy(class string) (time.Duration, int) {
	switch class {
	case "auth":
		return time.Duration(c.AuthWindowMS) * time.Millisecond, c.AuthMaxRequests
	case "contact":
		return time.Duration(c.ContactWindowMS) * time.Millisecond, c.ContactMaxRequests
	default:
		return time.Duration(c.WindowMS) * time.Millisecond, c.MaxRequests
	}
}

// # Validation

// Validate rejects non-positive windows, thresholds and the cleanup interval.
func (c RateLimitConfig) Validate() error {
	var errs []error

	positive := func(name string, value int64) {
		if value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, value))
		}
	}

	positive("RATE_LIMIT_WINDOW_MS", c.WindowMS)
	positive("RATE_LIMIT_MAX_REQUESTS", int64(c.MaxRequests))
	positive("RATE_LIMIT_AUTH_WINDOW_MS", c.AuthWindowMS)
	positive("RATE_LIMIT_AUTH_MAX_REQUESTS", int64(c.AuthMaxRequests))
	positive("RATE_LIMIT_CONTACT_WINDOW_MS", c.ContactWindowMS)
	positive("RATE_LIMIT_CONTACT_MAX_REQUESTS", int64(c.ContactMaxRequests))

	if c.CleanupInterval <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_CLEANUP_INTERVAL must be positive, got %s", c.CleanupInterval))
	}

	return errors.Join(errs...)
}

/*
Validate reports security misconfigurations.

Description: In production a missing or short JWT secret and an implicit CORS
allow-list are problems. Outside production only the secret length is reported.

Returns:
  - []string: Human readable problems, empty when the configuration is sound
*/
func (c *Config) Validate() []string {
	var problems []string

	if c.IsProduction() {
		if c.JWT.Secret == "" {
			problems = append(problems, "JWT_SECRET is required in production")
		}
		if len(c.CORS.AllowedOrigins) == 0 {
			problems = append(problems, "CORS_ALLOWED_ORIGINS should be explicitly set in production")
		}
	}

	if c.JWT.Secret != "" && len(c.JWT.Secret) < constants.MinSecretLength {
		problems = append(problems,
			fmt.Sprintf("JWT_SECRET should be at least %d characters", constants.MinSecretLength))
	}

	return problems
}

// # Duration

// Duration is a [time.Duration] that additionally accepts a whole-day suffix ("7d").
type Duration time.Duration

// UnmarshalText implements [encoding.TextUnmarshaler] for env parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a [time.Duration].
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ParseDuration parses "15m", "12h" or "7d" style values.
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		count, err := strconv.Atoi(days)
		if err != nil || count < 0 {
			return 0, fmt.Errorf("config: invalid day duration %q", raw)
		}
		return time.Duration(count) * 24 * time.Hour, nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	return parsed, nil
}
