// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing, Role checks)
// from the route handlers. Every public boundary reports failure as a value
// (false, [ErrInvalidToken], [ErrInsufficientRole]) so callers branch on outcomes
// instead of inspecting crypto errors.
package sec

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Sparsh-bit/portfolio/internal/platform/constants"
	"github.com/Sparsh-bit/portfolio/pkg/uuid"
)

// # Token Types

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// devFallbackSecret signs tokens outside production when no secret is configured.
const devFallbackSecret = "dev-secret-do-not-use-in-production-min-32-chars"

// ErrInvalidToken is the single outcome of every failed verification.
// Signature, algorithm, issuer, audience, expiry and shape errors are not distinguished.
var ErrInvalidToken = errors.New("sec: invalid token")

// Claims represents the payload embedded inside every issued token.
//
// # Wire Contract
//
// The JSON shape is sub, email, role, type, iat, exp, iss, aud (plus jti).
// Clients decoding the token rely on these names.
type Claims struct {
	Email string    `json:"email"`
	Role  Role      `json:"role"`
	Type  TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Principal rebuilds the request identity carried by the claims.
func (c *Claims) Principal() *Principal {
	return &Principal{ID: c.Subject, Email: c.Email, Role: c.Role}
}

// TokenConfig holds the signing parameters resolved from configuration.
type TokenConfig struct {
	Secret     string
	Issuer     string
	Audience   string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// TokenService handles generation and verification of HMAC-signed JWT tokens.
type TokenService struct {
	key        []byte
	method     jwt.SigningMethod
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

/*
NewTokenService creates a new TokenService.

Description: Resolves the signing key (see [ResolveSigningKey]) and the HMAC
algorithm. Both expiries must be positive so that every issued token expires
strictly after it is issued.

Parameters:
  - cfg: TokenConfig
  - production: bool (tightens the secret policy)
  - logger: *slog.Logger (receives insecure configuration warnings)

Returns:
  - *TokenService: Ready to issue and verify tokens
  - error: Configuration failures
*/
func NewTokenService(cfg TokenConfig, production bool, logger *slog.Logger) (*TokenService, error) {
	key, err := ResolveSigningKey(cfg.Secret, production, logger)
	if err != nil {
		return nil, err
	}

	method, err := signingMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("sec: token expiries must be positive (access=%s, refresh=%s)", cfg.AccessTTL, cfg.RefreshTTL)
	}

	return &TokenService{
		key:        key,
		method:     method,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads time from now.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *service
	clone.now = now
	return &clone
}

// ResolveSigningKey applies the secret policy.
//
// A missing secret is fatal in production and falls back to a labelled
// development secret elsewhere. A secret shorter than [constants.MinSecretLength]
// is fatal in production and only logged elsewhere.
func ResolveSigningKey(secret string, production bool, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if secret == "" {
		if production {
			return nil, errors.New("sec: JWT_SECRET is required in production")
		}
		logger.Warn("jwt_secret_missing_using_insecure_dev_secret")
		return []byte(devFallbackSecret), nil
	}

	if len(secret) < constants.MinSecretLength {
		if production {
			return nil, fmt.Errorf("sec: JWT_SECRET must be at least %d bytes", constants.MinSecretLength)
		}
		logger.Warn("jwt_secret_too_short", slog.Int("length", len(secret)), slog.Int("minimum", constants.MinSecretLength))
	}

	return []byte(secret), nil
}

func signingMethod(algorithm string) (jwt.SigningMethod, error) {
	switch algorithm {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("sec: unsupported JWT algorithm %q", algorithm)
	}
}

// # Issuance

// IssueAccess signs a short-lived access token for principal.
func (service *TokenService) IssueAccess(principal Principal) (string, error) {
	token, _, err := service.issue(principal, TokenAccess, service.accessTTL)
	return token, err
}

// IssueRefresh signs a long-lived refresh token for principal.
func (service *TokenService) IssueRefresh(principal Principal) (string, error) {
	token, _, err := service.issue(principal, TokenRefresh, service.refreshTTL)
	return token, err
}

// IssuePair signs both tokens with a shared issued-at instant.
func (service *TokenService) IssuePair(principal Principal) (TokenPair, error) {
	access, accessExpiry, err := service.issue(principal, TokenAccess, service.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, refreshExpiry, err := service.issue(principal, TokenRefresh, service.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExpiry,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

func (service *TokenService) issue(principal Principal, tokenType TokenType, timeToLive time.Duration) (string, time.Time, error) {
	if principal.ID == "" || !principal.Role.Valid() {
		return "", time.Time{}, fmt.Errorf("sec: cannot issue %s token for incomplete principal", tokenType)
	}

	currentTime := service.now()
	expiresAt := currentTime.Add(timeToLive)

	claims := Claims{
		Email: principal.Email,
		Role:  principal.Role,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   principal.ID,
			Issuer:    service.issuer,
			Audience:  jwt.ClaimStrings{service.audience},
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signedToken, err := jwt.NewWithClaims(service.method, claims).SignedString(service.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, expiresAt, nil
}

// # Verification

// Verify checks the signature, algorithm, issuer, audience and expiry of tokenString.
// The token type is not enforced; callers compare [Claims.Type] with the expected use.
func (service *TokenService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			return service.key, nil
		},
		jwt.WithValidMethods([]string{service.method.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithAudience(service.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
