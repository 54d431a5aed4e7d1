// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sparsh-bit/portfolio/internal/platform/apperr"
	"github.com/Sparsh-bit/portfolio/internal/platform/sec"
)

// Client-facing failure messages, identical across failure causes.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidRefresh     = "Invalid or expired refresh token"
)

// # Contracts & Types

// TokenIssuer defines the token operations the service needs.
type TokenIssuer interface {
	IssuePair(principal sec.Principal) (sec.TokenPair, error)
	Verify(tokenString string) (*sec.Claims, error)
}

// Service implements login and refresh use cases.
type Service struct {
	users  UserLookup
	hasher sec.Hasher
	tokens TokenIssuer
	logger *slog.Logger

	// dummyHash is verified against unknown emails so both paths cost one PBKDF2 run.
	dummyHash string
}

// LoginResult is returned by a successful [Service.Login].
type LoginResult struct {
	sec.TokenPair
	User sec.Principal `json:"user"`
}

// NewService constructs a [Service]. It hashes one throwaway password up front.
func NewService(users UserLookup, hasher sec.Hasher, tokens TokenIssuer, logger *slog.Logger) (*Service, error) {
	if users == nil || tokens == nil {
		return nil, errors.New("auth: service requires a user lookup and a token issuer")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummyHash, err := hasher.Hash("portfolio-timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("auth: dummy hash: %w", err)
	}

	return &Service{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummyHash,
	}, nil
}

// # Login Flow

/*
Login exchanges credentials for a token pair.

Description: An unknown email still runs one hash verification, so response
time does not reveal whether the account exists.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *LoginResult: Tokens and the public identity
  - error: Unauthorized on any credential failure, or lookup/signing errors
*/
func (service *Service) Login(context context.Context, email, password string) (*LoginResult, error) {
	user, err := service.users.FindByEmail(context, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("auth_service_lookup_failed: %w", err)
		}
		service.hasher.Verify(password, service.dummyHash)
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	if !service.hasher.Verify(password, user.PasswordHash) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	if service.hasher.NeedsRehash(user.PasswordHash) {
		service.logger.InfoContext(context, "auth_password_needs_rehash", slog.String("user_id", user.ID))
	}

	principal := user.Principal()
	pair, err := service.tokens.IssuePair(principal)
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_failed: %w", err)
	}

	service.logger.InfoContext(context, "auth_login_succeeded",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return &LoginResult{TokenPair: pair, User: principal}, nil
}

// # Refresh Flow

/*
Refresh exchanges a refresh token for a new pair.

Description: Access tokens are rejected with the same message as malformed
or expired ones. The presented refresh token stays valid until it expires.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - sec.TokenPair: A fresh access and refresh token
  - error: Unauthorized, or signing errors
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (sec.TokenPair, error) {
	claims, err := service.tokens.Verify(refreshToken)
	if err != nil || claims.Type != sec.TokenRefresh {
		return sec.TokenPair{}, apperr.Unauthorized(msgInvalidRefresh)
	}

	pair, err := service.tokens.IssuePair(*claims.Principal())
	if err != nil {
		return sec.TokenPair{}, fmt.Errorf("auth_service_issue_failed: %w", err)
	}

	service.logger.DebugContext(context, "auth_refresh_succeeded", slog.String("user_id", claims.Subject))
	return pair, nil
}
