// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/Sparsh-bit/portfolio/internal/platform/apperr"
	"github.com/Sparsh-bit/portfolio/internal/platform/constants"
	"github.com/Sparsh-bit/portfolio/internal/platform/cors"
	"github.com/Sparsh-bit/portfolio/internal/platform/ctxutil"
	"github.com/Sparsh-bit/portfolio/internal/platform/metrics"
	"github.com/Sparsh-bit/portfolio/internal/platform/ratelimit"
	"github.com/Sparsh-bit/portfolio/internal/platform/respond"
	"github.com/Sparsh-bit/portfolio/internal/platform/sec"
	"github.com/Sparsh-bit/portfolio/pkg/uuid"
)

// # Route Configuration

// RouteOptions selects the checks applied to one route.
type RouteOptions struct {
	// Public routes skip authentication and authorization.
	Public bool

	// RequiredRole is the minimum role of a non-public route. Empty means any authenticated user.
	RequiredRole sec.Role

	// RateLimitClass selects the policy. Empty means [ratelimit.ClassGlobal].
	RateLimitClass ratelimit.Class

	SkipRateLimit bool
	SkipCORS      bool
}

// SecurityContext is handed to every [SecureHandler].
type SecurityContext struct {
	RequestID string

	// User is nil on public routes.
	User *sec.Principal

	// RateLimitRemaining is -1 when rate limiting was skipped.
	RateLimitRemaining int
}

// SecureHandler is a route handler running behind the [Security] pipeline.
//
// A returned [*apperr.AppError] below 500 is rendered as is. Any other error is
// logged and rendered as an opaque 500.
type SecureHandler func(writer http.ResponseWriter, request *http.Request, security SecurityContext) error

// SecurityDeps holds the collaborators of [Security].
type SecurityDeps struct {
	CORS     *cors.Validator
	Limiter  *ratelimit.Limiter
	Tokens   TokenVerifier
	Policies ratelimit.Policies
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// Security composes CORS, rate limiting, authentication and authorization
// into one ordered pipeline around a route handler.
type Security struct {
	cors     *cors.Validator
	limiter  *ratelimit.Limiter
	tokens   TokenVerifier
	policies ratelimit.Policies
	metrics  *metrics.Metrics
	logger   *slog.Logger

	// rejectLog throttles rate-limit rejection logs.
	rejectLog rate.Sometimes
}

// NewSecurity validates deps and builds the pipeline.
func NewSecurity(deps SecurityDeps) (*Security, error) {
	if deps.CORS == nil || deps.Limiter == nil || deps.Tokens == nil {
		return nil, errors.New("middleware: security requires CORS, Limiter and Tokens")
	}
	if _, ok := deps.Policies[ratelimit.ClassGlobal]; !ok {
		return nil, errors.New("middleware: security requires a global rate-limit policy")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Security{
		cors:      deps.CORS,
		limiter:   deps.Limiter,
		tokens:    deps.Tokens,
		policies:  deps.Policies,
		metrics:   deps.Metrics,
		logger:    logger,
		rejectLog: rate.Sometimes{First: 1, Interval: 10 * time.Second},
	}, nil
}

// # Convenience Wrappers

// PublicRoute skips authentication and counts against class.
func (security *Security) PublicRoute(handler SecureHandler, class ratelimit.Class) http.Handler {
	return security.Wrap(handler, RouteOptions{Public: true, RateLimitClass: class})
}

// ProtectedRoute requires an access token of at least role.
func (security *Security) ProtectedRoute(handler SecureHandler, role sec.Role) http.Handler {
	return security.Wrap(handler, RouteOptions{RequiredRole: role, RateLimitClass: ratelimit.ClassGlobal})
}

// AdminRoute requires an admin access token.
func (security *Security) AdminRoute(handler SecureHandler) http.Handler {
	return security.ProtectedRoute(handler, sec.RoleAdmin)
}

// AuthRoute is a public route under the authentication rate-limit class.
func (security *Security) AuthRoute(handler SecureHandler) http.Handler {
	return security.Wrap(handler, RouteOptions{Public: true, RateLimitClass: ratelimit.ClassAuth})
}

// Handle registers handler on router for method and for its CORS preflight.
//
// The pipeline answers OPTIONS itself, so both methods share one handler.
func Handle(router chi.Router, method, pattern string, handler http.Handler) {
	router.Method(method, pattern, handler)
	router.Method(http.MethodOptions, pattern, handler)
}

// # Pipeline

/*
Wrap builds the pipeline for one route.

Description: The steps run in a fixed order and each assumes the previous
ones passed.

  1. Request ID
  2. CORS (preflight answered here)
  3. Rate limiting
  4. Authentication (non-public routes)
  5. Authorization (non-public routes with a required role)
  6. Handler
  7. Response decoration
  8. Fault conversion to 500

Parameters:
  - handler: SecureHandler
  - opts: RouteOptions

Returns:
  - http.Handler: The wrapped route
*/
func (security *Security) Wrap(handler SecureHandler, opts RouteOptions) http.Handler {
	policy := security.policies.Resolve(opts.RateLimitClass)

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		header := writer.Header()

		// ── 1. Request Identifier ─────────────────────────────────────────
		requestID := ctxutil.GetRequestID(request.Context())
		if requestID == "" {
			requestID = uuid.New()
			request = request.WithContext(ctxutil.WithRequestID(request.Context(), requestID))
		}
		header.Set(constants.HeaderXRequestID, requestID)
		for _, securityHeader := range constants.SecurityHeaders {
			header.Set(securityHeader.Name, securityHeader.Value)
		}

		logger := ctxutil.LoggerOr(request.Context(), security.logger)
		request = request.WithContext(ctxutil.WithLogger(request.Context(), logger))

		// ── 2. CORS ───────────────────────────────────────────────────────
		if !opts.SkipCORS {
			origin := request.Header.Get(constants.HeaderOrigin)

			if cors.IsPreflight(request) {
				// No headers means the origin is absent or disallowed.
				preflight := security.cors.PreflightHeaders(request)
				if len(preflight) == 0 {
					security.metrics.Decision(metrics.StageCORS, metrics.OutcomeRejected)
					respond.Error(writer, request, apperr.CORSRejected())
					return
				}
				security.metrics.Decision(metrics.StageCORS, metrics.OutcomeAllowed)
				cors.Apply(header, preflight)
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			if !security.cors.IsOriginAllowed(origin) {
				security.metrics.Decision(metrics.StageCORS, metrics.OutcomeRejected)
				respond.Error(writer, request, apperr.CORSRejected())
				return
			}
			security.metrics.Decision(metrics.StageCORS, metrics.OutcomeAllowed)
			cors.Apply(header, security.cors.ResponseHeaders(request, false))
		}

		// ── 3. Rate Limiting ──────────────────────────────────────────────
		remaining := -1
		identifier := ratelimit.ClientIdentifier(request.Header.Get, "")

		if !opts.SkipRateLimit {
			result, err := security.limiter.Check(request.Context(), identifier, policy)
			if err != nil {
				security.metrics.Decision(metrics.StageRateLimit, metrics.OutcomeError)
				logger.ErrorContext(request.Context(), "ratelimit_check_failed",
					slog.String("request_id", requestID),
					slog.String("error", err.Error()),
				)
			}

			cors.Apply(header, result.Headers())

			if !result.Allowed {
				security.metrics.Decision(metrics.StageRateLimit, metrics.OutcomeRejected)
				security.rejectLog.Do(func() {
					logger.WarnContext(request.Context(), "ratelimit_rejected",
						slog.String("request_id", requestID),
						slog.String("class", string(policy.Class)),
						slog.String("identifier", identifier),
					)
				})
				respond.Error(writer, request, apperr.RateLimited(result.RetryAfter))
				return
			}

			security.metrics.Decision(metrics.StageRateLimit, metrics.OutcomeAllowed)
			remaining = result.Remaining
		}

		// ── 4. Authentication ─────────────────────────────────────────────
		var principal *sec.Principal

		if !opts.Public {
			var err error
			principal, err = authenticate(security.tokens, request)
			if err != nil {
				security.metrics.Decision(metrics.StageAuthn, metrics.OutcomeRejected)
				header.Set(constants.HeaderWWWAuthenticate, "Bearer")
				respond.Error(writer, request, apperr.Unauthorized("Invalid or missing credentials"))
				return
			}
			security.metrics.Decision(metrics.StageAuthn, metrics.OutcomeAllowed)

			if !opts.SkipCORS {
				cors.Apply(header, security.cors.ResponseHeaders(request, true))
			}
		}

		// ── 5. Authorization ──────────────────────────────────────────────
		if !opts.Public && opts.RequiredRole != "" {
			if err := sec.Authorize(principal, opts.RequiredRole); err != nil {
				security.metrics.Decision(metrics.StageAuthz, metrics.OutcomeRejected)
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}
			security.metrics.Decision(metrics.StageAuthz, metrics.OutcomeAllowed)
		}

		// ── 6. Handler Invocation ─────────────────────────────────────────
		ctx := request.Context()
		ctx = ctxutil.WithRateLimitRemaining(ctx, remaining)
		if principal != nil {
			ctx = ctxutil.WithPrincipal(ctx, principal)
		}
		request = request.WithContext(ctx)

		securityContext := SecurityContext{
			RequestID:          requestID,
			User:               principal,
			RateLimitRemaining: remaining,
		}

		// ── 7. Response Decoration ────────────────────────────────────────
		decorated := &decoratingWriter{ResponseWriter: writer}
		if !opts.SkipRateLimit {
			decorated.beforeCommit = func() {
				security.refreshRateLimitHeaders(request.Context(), header, identifier, policy, logger)
			}
		}

		security.invoke(handler, decorated, request, securityContext, logger)
	})
}

// invoke runs handler and converts returned errors and panics (step 8).
func (security *Security) invoke(handler SecureHandler, writer *decoratingWriter, request *http.Request, securityContext SecurityContext, logger *slog.Logger) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		if recovered == http.ErrAbortHandler {
			panic(recovered)
		}

		security.metrics.Decision(metrics.StageHandler, metrics.OutcomeError)
		logger.ErrorContext(request.Context(), "handler_panic",
			slog.String("request_id", securityContext.RequestID),
			slog.Any("panic", recovered),
			slog.String("stack", stack()),
		)
		if !writer.committed {
			respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
		}
	}()

	err := handler(writer, request, securityContext)
	if err == nil {
		// Handlers that never write still get refreshed headers on the implicit 200.
		writer.commit()
		return
	}

	if appError := apperr.As(err); appError != nil && appError.HTTPStatus < http.StatusInternalServerError {
		if !writer.committed {
			respond.Error(writer, request, appError)
		}
		return
	}

	security.metrics.Decision(metrics.StageHandler, metrics.OutcomeError)
	logger.ErrorContext(request.Context(), "handler_failed",
		slog.String("request_id", securityContext.RequestID),
		slog.String("error", err.Error()),
	)
	if !writer.committed {
		respond.Error(writer, request, apperr.Internal(err))
	}
}

// refreshRateLimitHeaders replaces the admission headers with the window as it
// stands when the response is committed. Nothing is counted.
func (security *Security) refreshRateLimitHeaders(ctx context.Context, header http.Header, identifier string, policy ratelimit.Policy, logger *slog.Logger) {
	result, err := security.limiter.Peek(ctx, identifier, policy)
	if err != nil {
		logger.WarnContext(ctx, "ratelimit_peek_failed", slog.String("error", err.Error()))
		return
	}
	cors.Apply(header, result.Headers())
	if result.Allowed {
		header.Del(constants.HeaderRetryAfter)
	}
}

// # Response Writer

// decoratingWriter runs beforeCommit once, right before the status line is written.
type decoratingWriter struct {
	http.ResponseWriter
	beforeCommit func()
	committed    bool
}

func (writer *decoratingWriter) commit() {
	if writer.committed {
		return
	}
	writer.committed = true
	if writer.beforeCommit != nil {
		writer.beforeCommit()
	}
}

func (writer *decoratingWriter) WriteHeader(code int) {
	writer.commit()
	writer.ResponseWriter.WriteHeader(code)
}

func (writer *decoratingWriter) Write(body []byte) (int, error) {
	writer.commit()
	return writer.ResponseWriter.Write(body)
}

func (writer *decoratingWriter) Unwrap() http.ResponseWriter {
	return writer.ResponseWriter
}
