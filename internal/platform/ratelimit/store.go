// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"time"
)

// Window is the state of one client's counter.
type Window struct {
	Count   int64
	ResetAt time.Time
}

// Store persists fixed-window counters.
//
// # Atomicity
//
// Increment must be an atomic read-modify-write per key: concurrent callers
// never lose an update. A missing or elapsed window restarts at count 1 with
// ResetAt = now + window.
type Store interface {
	// Increment counts one request under key and returns the updated window.
	Increment(ctx context.Context, key string, window time.Duration) (Window, error)

	// Get returns the live window under key, or a zero Window when none exists.
	Get(ctx context.Context, key string) (Window, error)
}
