// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ratelimit implements fixed-window request counting per client.

Every policy class (global, auth, contact) owns a window length and a threshold.
A window starts on the first request of a client and ends at a wall-clock
instant; requests inside the window increment one shared counter.

Architecture:

  - Store: Atomic increment-and-read of one window ([MemoryStore], [RedisStore]).
  - Resilience: [ResilientStore] fails over from a shared store to a local one.
  - Limiter: Turns a window into an admit or reject [Result] with header metadata.

Windows are fixed, not sliding. A client may burst up to twice the threshold
across a window edge.
*/
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Sparsh-bit/portfolio/internal/platform/config"
	"github.com/Sparsh-bit/portfolio/internal/platform/constants"
)

// # Policies

// Class names a rate-limit policy.
type Class string

const (
	ClassGlobal  Class = "global"
	ClassAuth    Class = "auth"
	ClassContact Class = "contact"
)

// Policy is a window length and the number of requests admitted inside it.
type Policy struct {
	Class       Class
	Window      time.Duration
	MaxRequests int
}

// Policies resolves a [Class] to its [Policy].
type Policies map[Class]Policy

// PoliciesFromConfig builds the three standard classes from configuration.
func PoliciesFromConfig(cfg config.RateLimitConfig) Policies {
	policies := make(Policies, 3)
	for _, class := range []Class{ClassGlobal, ClassAuth, ClassContact} {
		window, maxRequests := cfg.Policy(string(class))
		policies[class] = Policy{Class: class, Window: window, MaxRequests: maxRequests}
	}
	return policies
}

// Resolve returns the policy for class, falling back to the global policy.
func (policies Policies) Resolve(class Class) Policy {
	if policy, ok := policies[class]; ok {
		return policy
	}
	return policies[ClassGlobal]
}

// # Results

// Result is the outcome of one rate-limit decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time

	// RetryAfter is the whole number of seconds until the window resets. Zero when allowed.
	RetryAfter int
}

// Headers renders the X-RateLimit-* headers, plus Retry-After on rejection.
func (result Result) Headers() http.Header {
	header := make(http.Header, 4)
	header.Set(constants.HeaderRateLimitLimit, strconv.Itoa(result.Limit))
	header.Set(constants.HeaderRateLimitRemaining, strconv.Itoa(result.Remaining))
	header.Set(constants.HeaderRateLimitReset, strconv.FormatInt(resetSeconds(result.ResetAt), 10))
	if !result.Allowed {
		header.Set(constants.HeaderRetryAfter, strconv.Itoa(result.RetryAfter))
	}
	return header
}

// resetSeconds is ceil(resetMillis / 1000) as a unix timestamp.
func resetSeconds(resetAt time.Time) int64 {
	return int64(math.Ceil(float64(resetAt.UnixMilli()) / 1000))
}

// # Limiter

// Limiter applies policies on top of a [Store].
type Limiter struct {
	store Store
	now   func() time.Time
}

// NewLimiter creates a limiter counting into store.
func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store, now: time.Now}
}

// WithClock returns a copy of the limiter that reads time from now.
// The store keeps its own clock.
func (limiter *Limiter) WithClock(now func() time.Time) *Limiter {
	clone := *limiter
	clone.now = now
	return &clone
}

// Key builds the store key of identifier under policy.
func Key(policy Policy, identifier string) string {
	return fmt.Sprintf("%s:%s", policy.Class, identifier)
}

/*
Check counts one request of identifier against policy.

Description: The request at count == MaxRequests is still admitted, the next
one is the first rejection. A store failure produces a rejection together with
the error so the caller can log it.

Parameters:
  - ctx: context.Context
  - identifier: string (see [ClientIdentifier])
  - policy: Policy

Returns:
  - Result: Always populated, even on error
  - error: Store failures
*/
func (limiter *Limiter) Check(ctx context.Context, identifier string, policy Policy) (Result, error) {
	window, err := limiter.store.Increment(ctx, Key(policy, identifier), policy.Window)
	if err != nil {
		return limiter.denyAll(policy), fmt.Errorf("ratelimit: increment failed: %w", err)
	}

	result := Result{
		Allowed:   window.Count <= int64(policy.MaxRequests),
		Limit:     policy.MaxRequests,
		Remaining: remaining(policy.MaxRequests, window.Count),
		ResetAt:   window.ResetAt,
	}
	if !result.Allowed {
		result.RetryAfter = limiter.retryAfter(window.ResetAt)
	}
	return result, nil
}

// Peek reports the current window of identifier without counting a request.
func (limiter *Limiter) Peek(ctx context.Context, identifier string, policy Policy) (Result, error) {
	window, err := limiter.store.Get(ctx, Key(policy, identifier))
	if err != nil {
		return limiter.denyAll(policy), fmt.Errorf("ratelimit: read failed: %w", err)
	}

	if window.Count == 0 {
		return Result{
			Allowed:   true,
			Limit:     policy.MaxRequests,
			Remaining: policy.MaxRequests,
			ResetAt:   limiter.now().Add(policy.Window),
		}, nil
	}

	result := Result{
		Allowed:   window.Count <= int64(policy.MaxRequests),
		Limit:     policy.MaxRequests,
		Remaining: remaining(policy.MaxRequests, window.Count),
		ResetAt:   window.ResetAt,
	}
	if !result.Allowed {
		result.RetryAfter = limiter.retryAfter(window.ResetAt)
	}
	return result, nil
}

func (limiter *Limiter) denyAll(policy Policy) Result {
	resetAt := limiter.now().Add(policy.Window)
	return Result{
		Allowed:    false,
		Limit:      policy.MaxRequests,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: limiter.retryAfter(resetAt),
	}
}

// retryAfter is ceil((resetAt - now) / 1s), never below one second.
func (limiter *Limiter) retryAfter(resetAt time.Time) int {
	seconds := int(math.Ceil(resetAt.Sub(limiter.now()).Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}

func remaining(maxRequests int, count int64) int {
	left := int64(maxRequests) - count
	if left < 0 {
		return 0
	}
	return int(left)
}
