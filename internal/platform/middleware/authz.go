// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Sparsh-bit/portfolio/internal/platform/constants"
	"github.com/Sparsh-bit/portfolio/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from [sec.TokenService],
// allowing tests to inject verifiers with fixed outcomes.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.Claims, error)
}

// errCredentials is the single authentication failure reported to clients.
var errCredentials = errors.New("middleware: invalid credentials")

// ExtractBearer parses an Authorization header value.
//
// # Format
//
// The value must be exactly two space separated parts and the first must be
// "bearer" in any letter case. Anything else reports false.
func ExtractBearer(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

/*
authenticate resolves the access-token principal of request.

Description: Missing header, malformed header, failed verification and a
refresh token presented as an access token all yield the same error.

Returns:
  - *sec.Principal: The verified identity
  - error: errCredentials on any failure
*/
func authenticate(verifier TokenVerifier, request *http.Request) (*sec.Principal, error) {

	// ── 1. Format Validation ──────────────────────────────────────────
	token, ok := ExtractBearer(request.Header.Get(constants.HeaderAuthorization))
	if !ok {
		return nil, errCredentials
	}

	// ── 2. Token Verification ─────────────────────────────────────────
	claims, err := verifier.Verify(token)
	if err != nil {
		return nil, errCredentials
	}

	// ── 3. Token Type ─────────────────────────────────────────────────
	if claims.Type != sec.TokenAccess {
		return nil, errCredentials
	}

	return claims.Principal(), nil
}
