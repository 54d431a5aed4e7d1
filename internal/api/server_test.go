// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sparsh-bit/portfolio/internal/account"
	"github.com/Sparsh-bit/portfolio/internal/api"
	"github.com/Sparsh-bit/portfolio/internal/auth"
	"github.com/Sparsh-bit/portfolio/internal/contact"
	"github.com/Sparsh-bit/portfolio/internal/platform/cors"
	"github.com/Sparsh-bit/portfolio/internal/platform/metrics"
	"github.com/Sparsh-bit/portfolio/internal/platform/middleware"
	"github.com/Sparsh-bit/portfolio/internal/platform/ratelimit"
	"github.com/Sparsh-bit/portfolio/internal/platform/sec"
)

const origin = "https://portfolio.example.com"

type options struct {
	checkCache   func(context.Context) error
	configErrors []string
	production   bool
}

func newServer(t *testing.T, opts options) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	telemetry := metrics.New(prometheus.NewRegistry())

	tokens, err := sec.NewTokenService(sec.TokenConfig{
		Secret:     "server-test-secret-that-is-at-least-32-b",
		Issuer:     "portfolio-api",
		Audience:   "portfolio-client",
		Algorithm:  "HS256",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}, false, logger)
	require.NoError(t, err)

	store := ratelimit.NewMemoryStore()
	security, err := middleware.NewSecurity(middleware.SecurityDeps{
		CORS:    cors.NewValidator(cors.DefaultOptions([]string{origin}, true, 86400)),
		Limiter: ratelimit.NewLimiter(store),
		Tokens:  tokens,
		Policies: ratelimit.Policies{
			ratelimit.ClassGlobal:  {Class: ratelimit.ClassGlobal, Window: time.Minute, MaxRequests: 100},
			ratelimit.ClassAuth:    {Class: ratelimit.ClassAuth, Window: 15 * time.Minute, MaxRequests: 5},
			ratelimit.ClassContact: {Class: ratelimit.ClassContact, Window: time.Hour, MaxRequests: 3},
		},
		Metrics: telemetry,
		Logger:  logger,
	})
	require.NoError(t, err)

	hasher := sec.Hasher{Iterations: 1_000, SaltLength: 16, KeyLength: 64}
	users := auth.NewMemoryUserStore()
	_, err = users.SeedDemo(hasher, "Admin@123", "User@123")
	require.NoError(t, err)

	authService, err := auth.NewService(users, hasher, tokens, logger)
	require.NoError(t, err)

	health, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckCache:   opts.checkCache,
		ConfigErrors: opts.configErrors,
		Production:   opts.production,
	}, logger)

	server := api.NewServer("0", logger, security, telemetry, api.Handlers{
		Health:    health,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Contact:   contact.NewHandler(contact.LogInbox{Logger: logger}),
		Account:   account.NewHandler(account.NewService(users, users, store)),
	})
	return server.Handler()
}

func do(handler http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("X-Forwarded-For", "203.0.113.99")
	for name, value := range headers {
		request.Header.Set(name, value)
	}
	response := httptest.NewRecorder()
	handler.ServeHTTP(response, request)
	return response
}

func TestHealth(t *testing.T) {
	handler := newServer(t, options{configErrors: []string{"JWT_SECRET is not set"}})

	response := do(handler, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, response.Code)

	var envelope struct {
		Data api.HealthReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &envelope))
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.False(t, envelope.Data.Security.ConfigValid)
	assert.Equal(t, []string{"JWT_SECRET is not set"}, envelope.Data.Security.ConfigErrors)
	assert.Equal(t, "memory", envelope.Data.Security.RateLimitStore)
	assert.Equal(t, response.Header().Get("X-Request-Id"), envelope.Data.RequestID)
	assert.Equal(t, "nosniff", response.Header().Get("X-Content-Type-Options"))
}

func TestHealthHidesConfigErrorsInProduction(t *testing.T) {
	handler := newServer(t, options{configErrors: []string{"JWT_SECRET is not set"}, production: true})

	response := do(handler, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.NotContains(t, response.Body.String(), "JWT_SECRET")
	assert.Contains(t, response.Body.String(), `"configValid":false`)
}

func TestReadiness(t *testing.T) {
	healthy := newServer(t, options{checkCache: func(context.Context) error { return nil }})
	assert.Equal(t, http.StatusOK, do(healthy, http.MethodGet, "/ready", "", nil).Code)

	broken := newServer(t, options{checkCache: func(context.Context) error { return errors.New("dial tcp: refused") }})
	response := do(broken, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, response.Code)
	assert.Contains(t, response.Body.String(), "degraded")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	handler := newServer(t, options{})

	missing := do(handler, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Contains(t, missing.Body.String(), "NOT_FOUND")

	wrongMethod := do(handler, http.MethodDelete, "/api/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, wrongMethod.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newServer(t, options{})

	do(handler, http.MethodGet, "/api/health", "", nil)
	response := do(handler, http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "portfolio_security_decisions_total")
	assert.Contains(t, response.Body.String(), `route="/api/health"`)
}

func TestPreflightThroughRouter(t *testing.T) {
	handler := newServer(t, options{})

	allowed := do(handler, http.MethodOptions, "/api/admin/dashboard", "", map[string]string{
		"Origin":                        origin,
		"Access-Control-Request-Method": http.MethodGet,
	})
	assert.Equal(t, http.StatusNoContent, allowed.Code)
	assert.Equal(t, origin, allowed.Header().Get("Access-Control-Allow-Origin"))

	rejected := do(handler, http.MethodOptions, "/api/contact", "", map[string]string{
		"Origin":                        "https://evil.example.net",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, http.StatusForbidden, rejected.Code)
}

func TestLoginThenAdminDashboard(t *testing.T) {
	handler := newServer(t, options{})

	login := func(email, password string) string {
		response := do(handler, http.MethodPost, "/api/auth/login",
			`{"email":"`+email+`","password":"`+password+`"}`, nil)
		require.Equal(t, http.StatusOK, response.Code)

		var envelope struct {
			Data struct {
				AccessToken string `json:"accessToken"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &envelope))
		return envelope.Data.AccessToken
	}

	userToken := login("user@example.com", "User@123")
	adminToken := login("admin@example.com", "Admin@123")

	denied := do(handler, http.MethodGet, "/api/admin/dashboard", "", map[string]string{"Authorization": "Bearer " + userToken})
	assert.Equal(t, http.StatusForbidden, denied.Code)
	assert.Contains(t, denied.Body.String(), "Insufficient permissions")

	granted := do(handler, http.MethodGet, "/api/admin/dashboard", "", map[string]string{"Authorization": "Bearer " + adminToken})
	assert.Equal(t, http.StatusOK, granted.Code)
	assert.Contains(t, granted.Body.String(), "Welcome to the Admin Dashboard")

	profile := do(handler, http.MethodGet, "/api/user/profile", "", map[string]string{"Authorization": "Bearer " + userToken})
	assert.Equal(t, http.StatusOK, profile.Code)
	assert.Contains(t, profile.Body.String(), `"email":"user@example.com"`)
}
