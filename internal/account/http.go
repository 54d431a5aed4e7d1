// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sparsh-bit/portfolio/internal/platform/middleware"
	"github.com/Sparsh-bit/portfolio/internal/platform/respond"
	"github.com/Sparsh-bit/portfolio/internal/platform/sec"
)

// Handler implements the profile and dashboard endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// UserRoutes returns a [chi.Router] for /api/user.
//
// # Endpoints
//   - GET /profile : Requires the user role.
func (handler *Handler) UserRoutes(security *middleware.Security) chi.Router {
	router := chi.NewRouter()
	middleware.Handle(router, http.MethodGet, "/profile", security.ProtectedRoute(handler.profile, sec.RoleUser))
	return router
}

// AdminRoutes returns a [chi.Router] for /api/admin.
//
// # Endpoints
//   - GET /dashboard : Requires the admin role.
func (handler *Handler) AdminRoutes(security *middleware.Security) chi.Router {
	router := chi.NewRouter()
	middleware.Handle(router, http.MethodGet, "/dashboard", security.AdminRoute(handler.dashboard))
	return router
}

/*
profile returns the caller's identity.

GET /api/user/profile

Response:
  - 200: Profile
  - 401: ErrUnauthorized
  - 403: ErrForbidden (guest tokens)
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request, security middleware.SecurityContext) error {
	profile, err := handler.accountService.Profile(request.Context(), *security.User)
	if err != nil {
		return fmt.Errorf("account_profile_failed: %w", err)
	}
	profile.RequestID = security.RequestID

	respond.OK(writer, profile)
	return nil
}

/*
dashboard returns the admin counters.

GET /api/admin/dashboard

Response:
  - 200: Dashboard
  - 401: ErrUnauthorized
  - 403: ErrForbidden (below admin)
*/
func (handler *Handler) dashboard(writer http.ResponseWriter, _ *http.Request, security middleware.SecurityContext) error {
	respond.OK(writer, Dashboard{
		Message:            "Welcome to the Admin Dashboard",
		Admin:              *security.User,
		Stats:              handler.accountService.Stats(),
		RequestID:          security.RequestID,
		RateLimitRemaining: security.RateLimitRemaining,
	})
	return nil
}
