// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sparsh-bit/portfolio/internal/platform/middleware"
	requestutil "github.com/Sparsh-bit/portfolio/internal/platform/request"
	"github.com/Sparsh-bit/portfolio/internal/platform/respond"
	"github.com/Sparsh-bit/portfolio/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the authentication HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] with the authentication routes.
//
// # Endpoints
//   - POST /login   : Exchanges credentials for a token pair.
//   - POST /refresh : Exchanges a refresh token for a new pair.
//
// Both are public and share the auth rate-limit class.
func (handler *Handler) Routes(security *middleware.Security) chi.Router {
	router := chi.NewRouter()

	middleware.Handle(router, http.MethodPost, "/login", security.AuthRoute(handler.login))
	middleware.Handle(router, http.MethodPost, "/refresh", security.AuthRoute(handler.refresh))

	return router
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

/*
login authenticates an account.

POST /api/auth/login

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: LoginResult
  - 400: ErrValidation
  - 401: ErrUnauthorized (unknown email and wrong password look the same)
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request, _ middleware.SecurityContext) error {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		return err
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return err
	}

	result, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		return err
	}

	respond.OK(writer, result)
	return nil
}

/*
refresh issues a new token pair.

POST /api/auth/refresh

Request:
  - Body: refreshRequest (RefreshToken)

Response:
  - 200: sec.TokenPair
  - 400: ErrValidation
  - 401: ErrUnauthorized (includes access tokens presented as refresh tokens)
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request, _ middleware.SecurityContext) error {
	var input refreshRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		return err
	}

	if err := new(validate.Validator).Required(FieldRefreshToken, input.RefreshToken).Err(); err != nil {
		return err
	}

	pair, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		return err
	}

	respond.OK(writer, pair)
	return nil
}
