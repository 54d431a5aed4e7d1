// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Anonymous or unverified visitor
	RoleGuest Role = "guest"

	// Default role for standard registered users
	RoleUser Role = "user"

	// Can access the admin dashboard
	RoleAdmin Role = "admin"

	// Unrestricted system access
	RoleSuperAdmin Role = "super_admin"
)

// # Role Hierarchy

// Rank maps a role to its position in the hierarchy. Unknown roles rank below guest.
func (r Role) Rank() int {
	switch r {
	case RoleSuperAdmin:
		return 3
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	case RoleGuest:
		return 0
	default:
		return -1
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.Rank() >= 0
}

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return HasRole(r, target)
}

// ParseRole converts raw into a known [Role].
func ParseRole(raw string) (Role, bool) {
	role := Role(raw)
	if !role.Valid() {
		return "", false
	}
	return role, true
}

// HasRole reports whether actual satisfies required. Unknown roles satisfy nothing.
func HasRole(actual, required Role) bool {
	if !actual.Valid() || !required.Valid() {
		return false
	}
	return actual.Rank() >= required.Rank()
}

// HasAnyRole reports whether actual satisfies at least one of allowed.
func HasAnyRole(actual Role, allowed ...Role) bool {
	for _, candidate := range allowed {
		if HasRole(actual, candidate) {
			return true
		}
	}
	return false
}
