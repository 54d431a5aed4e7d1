// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count   int64
	resetAt time.Time
}

// MemoryStore keeps windows in process memory behind a single mutex.
//
// A window still counts at exactly its reset instant and is replaced once the
// clock is past it, the same as a Redis key expiry.
//
// # Lifecycle
//
// Expired windows are only reclaimed by [MemoryStore.Sweep]. Call
// [MemoryStore.StartCleanup] once at startup and [MemoryStore.Stop] on shutdown.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewMemoryStore creates an empty store on the wall clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock creates an empty store reading time from now.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Increment implements [Store].
func (store *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (Window, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	currentTime := store.now()
	entry, found := store.entries[key]

	// Start a new window when none exists or now is past the previous reset
	if !found || currentTime.After(entry.resetAt) {
		entry = &memoryEntry{count: 1, resetAt: currentTime.Add(window)}
		store.entries[key] = entry
		return Window{Count: entry.count, ResetAt: entry.resetAt}, nil
	}

	entry.count++
	return Window{Count: entry.count, ResetAt: entry.resetAt}, nil
}

// Get implements [Store].
func (store *MemoryStore) Get(_ context.Context, key string) (Window, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entry, found := store.entries[key]
	if !found || store.now().After(entry.resetAt) {
		return Window{}, nil
	}
	return Window{Count: entry.count, ResetAt: entry.resetAt}, nil
}

// Sweep deletes every elapsed window and returns how many were removed.
func (store *MemoryStore) Sweep() int {
	store.mu.Lock()
	defer store.mu.Unlock()

	currentTime := store.now()
	removed := 0
	for key, entry := range store.entries {
		if currentTime.After(entry.resetAt) {
			delete(store.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked windows, elapsed or not.
func (store *MemoryStore) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.entries)
}

// DefaultCleanupInterval replaces a non-positive StartCleanup interval.
const DefaultCleanupInterval = time.Minute

// StartCleanup sweeps every interval on a background goroutine until [MemoryStore.Stop].
// Only the first call starts a goroutine. A non-positive interval falls back to
// [DefaultCleanupInterval].
func (store *MemoryStore) StartCleanup(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	store.startOnce.Do(func() {
		go func() {
			defer close(store.done)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					store.Sweep()
				case <-store.stop:
					return
				}
			}
		}()
	})
}

// Stop halts the cleanup goroutine and waits for it to exit. Safe to call more than once,
// and safe to call when cleanup was never started.
func (store *MemoryStore) Stop() {
	store.stopOnce.Do(func() {
		close(store.stop)
	})

	// Prevent a later StartCleanup from spawning, then wait if one is running.
	started := true
	store.startOnce.Do(func() {
		started = false
		close(store.done)
	})
	if started {
		<-store.done
	}
}
