// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account serves the authenticated views of the portfolio API.

  - Profile: Any signed-in user reads their own identity.
  - Dashboard: Admins read operational counters.

# Architecture

Both routes run behind the security pipeline, so handlers receive a verified
principal and never parse tokens themselves. This package depends on the auth
package for the User entity.
*/
package account

import (
	"context"
	"errors"

	"github.com/Sparsh-bit/portfolio/internal/auth"
	"github.com/Sparsh-bit/portfolio/internal/platform/sec"
)

// # Domain Entities

// Profile is the caller's own identity.
type Profile struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Role      sec.Role `json:"role"`
	Name      string   `json:"name,omitempty"`
	RequestID string   `json:"requestId"`
}

// Stats are the counters shown on the admin dashboard.
type Stats struct {
	TotalUsers             int `json:"totalUsers"`
	ActiveRateLimitWindows int `json:"activeRateLimitWindows"`
}

// Dashboard is the admin landing payload.
type Dashboard struct {
	Message            string        `json:"message"`
	Admin              sec.Principal `json:"admin"`
	Stats              Stats         `json:"stats"`
	RequestID          string        `json:"requestId"`
	RateLimitRemaining int           `json:"rateLimitRemaining"`
}

// Counter reports a size. [auth.MemoryUserStore] and [ratelimit.MemoryStore] satisfy it.
type Counter interface {
	Len() int
}

// # Service

// Service assembles profile and dashboard views.
type Service struct {
	users   auth.UserLookup
	counted Counter
	windows Counter
}

// NewService constructs a [Service]. Any argument may be nil.
//
// users enriches profiles with the display name. counted and windows feed the
// dashboard counters; a nil counter reports zero.
func NewService(users auth.UserLookup, counted, windows Counter) *Service {
	return &Service{users: users, counted: counted, windows: windows}
}

/*
Profile builds the caller's profile from the verified principal.

Returns:
  - Profile: Identity plus display name when the account is still known
  - error: Lookup failures other than a missing account
*/
func (service *Service) Profile(context context.Context, principal sec.Principal) (Profile, error) {
	profile := Profile{ID: principal.ID, Email: principal.Email, Role: principal.Role}

	if service.users == nil {
		return profile, nil
	}

	user, err := service.users.FindByEmail(context, principal.Email)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		return profile, nil
	case err != nil:
		return Profile{}, err
	}

	if user.ID == principal.ID {
		profile.Name = user.Name
	}
	return profile, nil
}

// Stats reads the dashboard counters.
func (service *Service) Stats() Stats {
	return Stats{
		TotalUsers:             count(service.counted),
		ActiveRateLimitWindows: count(service.windows),
	}
}

func count(counter Counter) int {
	if counter == nil {
		return 0
	}
	return counter.Len()
}
