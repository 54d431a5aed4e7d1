// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "errors"

// # Authorization

var (
	// ErrNotAuthenticated is returned by [Authorize] when no principal is present.
	ErrNotAuthenticated = errors.New("sec: not authenticated")

	// ErrInsufficientRole is returned by [Authorize] when the principal ranks too low.
	ErrInsufficientRole = errors.New("sec: insufficient role")
)

// Principal is the verified identity attached to a request.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Authorize decides whether principal meets the required role.
func Authorize(principal *Principal, required Role) error {
	if principal == nil {
		return ErrNotAuthenticated
	}
	if !HasRole(principal.Role, required) {
		return ErrInsufficientRole
	}
	return nil
}
