// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the portfolio HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load and validate configuration from environment variables.
//  3. Connect to Redis when configured.
//  4. Build the rate-limit store and start its sweep.
//  5. Build the token service, hasher and user store.
//  6. Wire HTTP handlers behind the security pipeline.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Sparsh-bit/portfolio/internal/account"
	"github.com/Sparsh-bit/portfolio/internal/api"
	"github.com/Sparsh-bit/portfolio/internal/auth"
	"github.com/Sparsh-bit/portfolio/internal/contact"
	"github.com/Sparsh-bit/portfolio/internal/platform/config"
	"github.com/Sparsh-bit/portfolio/internal/platform/constants"
	"github.com/Sparsh-bit/portfolio/internal/platform/cors"
	"github.com/Sparsh-bit/portfolio/internal/platform/metrics"
	"github.com/Sparsh-bit/portfolio/internal/platform/middleware"
	"github.com/Sparsh-bit/portfolio/internal/platform/ratelimit"
	redisstore "github.com/Sparsh-bit/portfolio/internal/platform/redis"
	"github.com/Sparsh-bit/portfolio/internal/platform/sec"
)

// Demo passwords used outside production when none are configured.
const (
	devAdminPassword = "Admin@123"
	devUserPassword  = "User@123"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	configErrors := cfg.Validate()
	for _, problem := range configErrors {
		log.Warn("configuration_problem", slog.String("problem", problem))
	}
	if cfg.IsProduction() && len(configErrors) > 0 {
		must(log, errors.New(strings.Join(configErrors, "; ")), "validate configuration")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Int("cors_origins", len(cfg.CORS.Origins())),
	)

	// Root context for startup. Use a short deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer startupCancel()

	registry := prometheus.NewRegistry()
	telemetry := metrics.NewWithRuntime(registry)

	// ── 3. Redis (optional) ───────────────────────────────────────────────
	memoryStore := ratelimit.NewMemoryStore()
	var limiterStore ratelimit.Store = memoryStore
	var checkCache func(context.Context) error

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		resilientConfig := ratelimit.DefaultResilientConfig()
		resilientConfig.OnFallback = telemetry.StoreFallback
		limiterStore = ratelimit.NewResilientStore(ratelimit.NewRedisStore(rdb), memoryStore, resilientConfig, log)

		checkCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	} else {
		log.Info("ratelimit_store_in_memory")
	}

	// ── 4. Rate-Limit Sweep ───────────────────────────────────────────────
	// The memory store backs the limiter or the Redis fallback; either way it needs sweeping.
	memoryStore.StartCleanup(cfg.RateLimit.CleanupInterval)
	defer memoryStore.Stop()

	// ── 5. Credentials ────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(sec.TokenConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Audience:   cfg.JWT.Audience,
		Algorithm:  cfg.JWT.Algorithm,
		AccessTTL:  cfg.JWT.AccessExpiry.Std(),
		RefreshTTL: cfg.JWT.RefreshExpiry.Std(),
	}, cfg.IsProduction(), log)
	must(log, err, "initialize token service")

	hasher := sec.DefaultHasher()
	users := auth.NewMemoryUserStore()

	if cfg.SeedDemoUsers {
		adminPassword, userPassword := cfg.DemoAdminPassword, cfg.DemoUserPassword
		if !cfg.IsProduction() {
			adminPassword = fallback(adminPassword, devAdminPassword)
			userPassword = fallback(userPassword, devUserPassword)
		}
		seeded, err := users.SeedDemo(hasher, adminPassword, userPassword)
		must(log, err, "seed demo users")
		log.Info("demo_users_seeded", slog.Int("count", seeded))
	}

	// ── 6. Security Pipeline & Handlers ───────────────────────────────────
	security, err := middleware.NewSecurity(middleware.SecurityDeps{
		CORS:     cors.NewValidator(cors.DefaultOptions(cfg.CORS.Origins(), cfg.CORS.Credentials, cfg.CORS.MaxAge)),
		Limiter:  ratelimit.NewLimiter(limiterStore),
		Tokens:   tokens,
		Policies: ratelimit.PoliciesFromConfig(cfg.RateLimit),
		Metrics:  telemetry,
		Logger:   log,
	})
	must(log, err, "initialize security pipeline")

	authService, err := auth.NewService(users, hasher, tokens, log)
	must(log, err, "initialize auth service")

	health, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckCache:   checkCache,
		ConfigErrors: configErrors,
		Production:   cfg.IsProduction(),
	}, log)

	handlers := api.Handlers{
		Health:    health,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Contact:   contact.NewHandler(contact.LogInbox{Logger: log}),
		Account:   account.NewHandler(account.NewService(users, users, memoryStore)),
	}

	// ── 7. HTTP Server & Graceful Shutdown ────────────────────────────────
	server := api.NewServer(cfg.ServerPort, log, security, telemetry, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		return
	}

	log.Info("server stopped cleanly")
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
