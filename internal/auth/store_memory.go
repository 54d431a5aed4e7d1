// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Sparsh-bit/portfolio/internal/platform/sec"
	"github.com/Sparsh-bit/portfolio/pkg/normalize"
	"github.com/Sparsh-bit/portfolio/pkg/uuid"
)

// Demo account emails seeded by [MemoryUserStore.SeedDemo].
const (
	DemoAdminEmail = "admin@example.com"
	DemoUserEmail  = "user@example.com"
)

// MemoryUserStore is a [UserLookup] backed by a map keyed on normalized email.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryUserStore returns an empty store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*User)}
}

// Add inserts or replaces an account. The email is stored in normalized form.
func (store *MemoryUserStore) Add(user User) error {
	if user.ID == "" {
		return errors.New("auth: user id is required")
	}
	if !user.Role.Valid() {
		return fmt.Errorf("auth: invalid role %q", user.Role)
	}

	user.Email = normalize.Email(user.Email)

	store.mu.Lock()
	defer store.mu.Unlock()
	store.users[user.Email] = &user
	return nil
}

// FindByEmail implements [UserLookup]. The returned value is a copy.
func (store *MemoryUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	user, ok := store.users[normalize.Email(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	found := *user
	return &found, nil
}

// Len reports the number of accounts.
func (store *MemoryUserStore) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.users)
}

/*
SeedDemo registers one admin and one regular account.

An empty password skips that account, so a deployment can seed only the
accounts it has secrets for.

Parameters:
  - hasher: sec.Hasher
  - adminPassword: string
  - userPassword: string

Returns:
  - int: Number of accounts added
  - error: Hashing failures
*/
func (store *MemoryUserStore) SeedDemo(hasher sec.Hasher, adminPassword, userPassword string) (int, error) {
	seeds := []struct {
		email    string
		name     string
		role     sec.Role
		password string
	}{
		{DemoAdminEmail, "Demo Admin", sec.RoleAdmin, adminPassword},
		{DemoUserEmail, "Demo User", sec.RoleUser, userPassword},
	}

	added := 0
	for _, seed := range seeds {
		if seed.password == "" {
			continue
		}

		hash, err := hasher.Hash(seed.password)
		if err != nil {
			return added, fmt.Errorf("auth: seed %s: %w", seed.email, err)
		}

		if err := store.Add(User{
			ID:           uuid.New(),
			Email:        seed.email,
			PasswordHash: hash,
			Name:         seed.name,
			Role:         seed.role,
		}); err != nil {
			return added, err
		}
		added++
	}

	return added, nil
}
