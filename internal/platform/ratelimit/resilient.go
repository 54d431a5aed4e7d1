// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// ResilientConfig configures the circuit breaker in front of the primary store.
type ResilientConfig struct {
	// Name identifies the breaker in logs.
	Name string

	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic reset period of the failure counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32

	// OnFallback is invoked once per operation served by the fallback store.
	OnFallback func()
}

// DefaultResilientConfig returns production defaults.
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		Name:             "ratelimit-store",
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 3,
	}
}

// ResilientStore serves from a shared primary store and falls back to a local
// store when the primary errors or its breaker is open.
//
// Counts taken by the fallback are per instance, so limits loosen by a factor
// of the instance count during an outage.
type ResilientStore struct {
	primary    Store
	fallback   Store
	breaker    *gobreaker.CircuitBreaker[Window]
	onFallback func()
	logger     *slog.Logger

	fallbacksTotal atomic.Int64
}

// NewResilientStore wraps primary with a breaker and the given fallback.
func NewResilientStore(primary, fallback Store, cfg ResilientConfig, logger *slog.Logger) *ResilientStore {
	if logger == nil {
		logger = slog.Default()
	}

	store := &ResilientStore{
		primary:    primary,
		fallback:   fallback,
		onFallback: cfg.OnFallback,
		logger:     logger,
	}

	store.breaker = gobreaker.NewCircuitBreaker[Window](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			store.logger.Warn("ratelimit_store_breaker_state_changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return store
}

// Increment implements [Store].
func (store *ResilientStore) Increment(ctx context.Context, key string, window time.Duration) (Window, error) {
	result, err := store.breaker.Execute(func() (Window, error) {
		return store.primary.Increment(ctx, key, window)
	})
	if err == nil {
		return result, nil
	}

	store.recordFallback(err)
	return store.fallback.Increment(ctx, key, window)
}

// Get implements [Store].
func (store *ResilientStore) Get(ctx context.Context, key string) (Window, error) {
	result, err := store.breaker.Execute(func() (Window, error) {
		return store.primary.Get(ctx, key)
	})
	if err == nil {
		return result, nil
	}

	store.recordFallback(err)
	return store.fallback.Get(ctx, key)
}

// State reports the breaker state ("closed", "half-open" or "open").
func (store *ResilientStore) State() string {
	return store.breaker.State().String()
}

// Fallbacks returns how many operations the fallback store has served.
func (store *ResilientStore) Fallbacks() int64 {
	return store.fallbacksTotal.Load()
}

func (store *ResilientStore) recordFallback(err error) {
	store.fallbacksTotal.Add(1)
	if store.onFallback != nil {
		store.onFallback()
	}
	store.logger.Debug("ratelimit_store_fallback", slog.String("error", err.Error()))
}
