// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned by [UserLookup] when no account matches.
var ErrUserNotFound = errors.New("auth: user not found")

// # User Data Access

// UserLookup defines the read contract for login accounts.
type UserLookup interface {

	/*
		FindByEmail returns the account registered under email.

		Parameters:
		  - context: context.Context
		  - email: string (any case; implementations normalize it)

		Returns:
		  - *User: Hydrated entity
		  - error: ErrUserNotFound, or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)
}
