// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements credential login and token refresh for the portfolio API.

It exchanges an email and password for a signed token pair, and a refresh
token for a fresh pair.

# Architecture

  - Service: Orchestrates credential checks and token issuance.
  - UserLookup: Abstracted read-only account source. The bundled implementation is an in-memory stub.
  - Handler: JSON transport mounted behind the security pipeline under the auth rate-limit class.

Failures never reveal whether the email exists or the password was wrong.
*/
package auth

import (
	"github.com/Sparsh-bit/portfolio/internal/platform/sec"
)

// # Domain Entities

// User is an account that can log in.
type User struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"` // Never serialized.
	Name         string   `json:"name,omitempty"`
	Role         sec.Role `json:"role"`
}

// Principal returns the identity carried by tokens issued for the user.
func (user *User) Principal() sec.Principal {
	return sec.Principal{ID: user.ID, Email: user.Email, Role: user.Role}
}

// # Field Identifiers

// JSON field names of the authentication payloads.
const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRefreshToken = "refreshToken"
)
