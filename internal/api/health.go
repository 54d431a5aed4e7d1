// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Sparsh-bit/portfolio/internal/platform/constants"
	"github.com/Sparsh-bit/portfolio/internal/platform/middleware"
	"github.com/Sparsh-bit/portfolio/internal/platform/respond"
)

// HealthDependencies holds the inputs of the health endpoints.
type HealthDependencies struct {
	// CheckCache pings the Redis client. Nil when the limiter runs in memory.
	CheckCache func(ctx context.Context) error

	// ConfigErrors is the result of config validation at startup.
	ConfigErrors []string

	// Production hides ConfigErrors from /api/health.
	Production bool

	// Now defaults to time.Now.
	Now func() time.Time
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// SecurityStatus is the non-sensitive security summary of /api/health.
type SecurityStatus struct {
	RateLimitingEnabled   bool     `json:"rateLimitingEnabled"`
	CORSEnabled           bool     `json:"corsEnabled"`
	AuthenticationEnabled bool     `json:"authenticationEnabled"`
	RateLimitStore        string   `json:"rateLimitStore"`
	ConfigValid           bool     `json:"configValid"`
	ConfigErrors          []string `json:"configErrors,omitempty"`
}

// HealthReport is the body of /api/health.
type HealthReport struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Security  SecurityStatus `json:"security"`
	RequestID string         `json:"requestId"`
}

// NewHealthHandlers creates the /api/health route handler and the /ready check.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (health middleware.SecureHandler, readiness http.HandlerFunc) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.health, handler.readiness
}

// health handles GET /api/health behind the public security pipeline.
func (handler *healthHandler) health(writer http.ResponseWriter, _ *http.Request, security middleware.SecurityContext) error {
	status := SecurityStatus{
		RateLimitingEnabled:   true,
		CORSEnabled:           true,
		AuthenticationEnabled: true,
		RateLimitStore:        "memory",
		ConfigValid:           len(handler.dependencies.ConfigErrors) == 0,
	}
	if handler.dependencies.CheckCache != nil {
		status.RateLimitStore = "redis"
	}
	if !handler.dependencies.Production {
		status.ConfigErrors = handler.dependencies.ConfigErrors
	}

	respond.OK(writer, HealthReport{
		Status:    "healthy",
		Timestamp: handler.dependencies.Now().UTC(),
		Version:   constants.AppVersion,
		Security:  status,
		RequestID: security.RequestID,
	})
	return nil
}

// readiness handles GET /ready (readiness check).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	type checkResult struct {
		Name  string `json:"name"`
		IsOK  bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	results := make([]checkResult, 0, 1)
	isSystemReady := true

	// Check Redis
	if handler.dependencies.CheckCache != nil {
		result := checkResult{Name: "redis", IsOK: true}
		if err := handler.dependencies.CheckCache(request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", "redis"), slog.Any("error", err))
		}
		results = append(results, result)
	}

	responseStatus := "ready"
	httpStatus := http.StatusOK

	if !isSystemReady {
		responseStatus = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		"status": responseStatus,
		"checks": results,
	}})
}
