// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
route handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - Global middleware handles tracing, logging, metrics and panics. Everything
    security related runs per route inside [middleware.Security].
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Sparsh-bit/portfolio/internal/account"
	"github.com/Sparsh-bit/portfolio/internal/auth"
	"github.com/Sparsh-bit/portfolio/internal/contact"
	"github.com/Sparsh-bit/portfolio/internal/platform/apperr"
	"github.com/Sparsh-bit/portfolio/internal/platform/constants"
	"github.com/Sparsh-bit/portfolio/internal/platform/metrics"
	"github.com/Sparsh-bit/portfolio/internal/platform/middleware"
	"github.com/Sparsh-bit/portfolio/internal/platform/ratelimit"
	"github.com/Sparsh-bit/portfolio/internal/platform/respond"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all route handler sets.
type Handlers struct {
	// Health is the /api/health handler. It runs behind the public pipeline.
	Health middleware.SecureHandler

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles login and token refresh.
	Auth *auth.Handler

	// Contact handles contact form submissions.
	Contact *contact.Handler

	// Account handles the profile and admin dashboard.
	Account *account.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the global middleware chain and
// registers all route groups behind security.
func NewServer(port string, log *slog.Logger, security *middleware.Security, telemetry *metrics.Metrics, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(telemetry.Instrument)
	r.Use(middleware.PanicRecovery(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(chimw.CleanPath)

	r.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Route"))
	})
	r.MethodNotAllowed(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.MethodNotAllowed())
	})

	// # Infrastructure Endpoints
	// Unauthenticated health checks for container orchestration and scraping.
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	// # Application API
	r.Route("/api", func(api chi.Router) {
		middleware.Handle(api, http.MethodGet, "/health", security.PublicRoute(h.Health, ratelimit.ClassGlobal))
		api.Mount("/auth", h.Auth.Routes(security))
		api.Mount("/contact", h.Contact.Routes(security))
		api.Mount("/user", h.Account.UserRoutes(security))
		api.Mount("/admin", h.Account.AdminRoutes(security))
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
