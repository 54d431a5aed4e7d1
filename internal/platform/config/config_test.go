// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sparsh-bit/portfolio/internal/platform/config"
)

/*
TestLoad_Defaults verifies the documented defaults when the environment is empty.
*/
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "portfolio-api", cfg.JWT.Issuer)
	assert.Equal(t, "portfolio-client", cfg.JWT.Audience)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry.Std())
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry.Std())
	assert.True(t, cfg.CORS.Credentials)
	assert.Equal(t, 86400, cfg.CORS.MaxAge)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.Origins())

	window, limit := cfg.RateLimit.Policy("global")
	assert.Equal(t, time.Minute, window)
	assert.Equal(t, 100, limit)

	window, limit = cfg.RateLimit.Policy("auth")
	assert.Equal(t, 15*time.Minute, window)
	assert.Equal(t, 5, limit)

	window, limit = cfg.RateLimit.Policy("contact")
	assert.Equal(t, time.Hour, window)
	assert.Equal(t, 3, limit)
}

/*
TestLoad_Overrides verifies nested prefixes and the comma separated origin list.
*/
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_CONTACT_MAX_REQUESTS", "10")
	t.Setenv("JWT_REFRESH_EXPIRY", "30d")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, *.example.org")

	cfg, err := config.Load()
	require.NoError(t, err)

	_, limit := cfg.RateLimit.Policy("contact")
	assert.Equal(t, 10, limit)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshExpiry.Std())
	assert.Equal(t, []string{"https://a.example.com", "*.example.org"}, cfg.CORS.Origins())
}

/*
TestLoad_InvalidDuration verifies that a malformed expiry fails loading.
*/
func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "soon")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestLoad_RejectsNonPositiveRateLimits verifies that settings which would disable
limiting or stall the sweep fail loading in every environment.
*/
func TestLoad_RejectsNonPositiveRateLimits(t *testing.T) {
	cases := map[string]string{
		"RATE_LIMIT_CLEANUP_INTERVAL":     "0s",
		"RATE_LIMIT_WINDOW_MS":            "0",
		"RATE_LIMIT_MAX_REQUESTS":         "-1",
		"RATE_LIMIT_AUTH_WINDOW_MS":       "0",
		"RATE_LIMIT_AUTH_MAX_REQUESTS":    "0",
		"RATE_LIMIT_CONTACT_WINDOW_MS":    "-5",
		"RATE_LIMIT_CONTACT_MAX_REQUESTS": "0",
	}

	for name, value := range cases {
		for _, environment := range []string{"development", "production"} {
			t.Run(name+"_"+environment, func(t *testing.T) {
				t.Setenv("ENVIRONMENT", environment)
				t.Setenv(name, value)

				_, err := config.Load()
				require.Error(t, err)
				assert.Contains(t, err.Error(), name)
			})
		}
	}
}

func TestRateLimitConfig_Validate(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.RateLimit.Validate())

	assert.Error(t, config.RateLimitConfig{}.Validate())
}

/*
TestValidate verifies production-only checks and the secret length rule.
*/
func TestValidate(t *testing.T) {
	t.Run("Development_NoSecret", func(t *testing.T) {
		cfg := &config.Config{Environment: "development"}
		assert.Empty(t, cfg.Validate())
	})

	t.Run("Development_ShortSecret", func(t *testing.T) {
		cfg := &config.Config{Environment: "development"}
		cfg.JWT.Secret = "short"
		assert.Len(t, cfg.Validate(), 1)
	})

	t.Run("Production_Missing", func(t *testing.T) {
		cfg := &config.Config{Environment: "production"}
		problems := cfg.Validate()
		assert.Len(t, problems, 2)
	})

	t.Run("Production_Sound", func(t *testing.T) {
		cfg := &config.Config{Environment: "production"}
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.CORS.AllowedOrigins = []string{"https://portfolio.example.com"}
		assert.Empty(t, cfg.Validate())
	})
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"15m": 15 * time.Minute,
		"12h": 12 * time.Hour,
		"7d":  7 * 24 * time.Hour,
		"0d":  0,
	}
	for raw, want := range cases {
		got, err := config.ParseDuration(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := config.ParseDuration("xd")
	assert.Error(t, err)
}
