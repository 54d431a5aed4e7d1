// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sparsh-bit/portfolio/internal/platform/constants"
)

// incrementScript counts a hit and arms the expiry on the first hit of a window.
// A key that somehow lost its TTL is re-armed so it cannot live forever.
var incrementScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisStore shares windows between instances through Redis key expiry.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a store writing keys under [constants.RedisPrefixRateLimit].
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, prefix: constants.RedisPrefixRateLimit, now: time.Now}
}

// Increment implements [Store].
func (store *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (Window, error) {
	values, err := incrementScript.Run(ctx, store.client, []string{store.prefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Window{}, fmt.Errorf("ratelimit: redis increment: %w", err)
	}
	if len(values) != 2 {
		return Window{}, fmt.Errorf("ratelimit: redis increment returned %d values", len(values))
	}

	return Window{
		Count:   values[0],
		ResetAt: store.now().Add(time.Duration(values[1]) * time.Millisecond),
	}, nil
}

// Get implements [Store].
func (store *RedisStore) Get(ctx context.Context, key string) (Window, error) {
	pipe := store.client.Pipeline()
	countCmd := pipe.Get(ctx, store.prefix+key)
	ttlCmd := pipe.PTTL(ctx, store.prefix+key)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return Window{}, fmt.Errorf("ratelimit: redis get: %w", err)
	}

	count, err := countCmd.Int64()
	if errors.Is(err, redis.Nil) {
		return Window{}, nil
	}
	if err != nil {
		return Window{}, fmt.Errorf("ratelimit: redis get: %w", err)
	}

	ttl := ttlCmd.Val()
	if ttl <= 0 {
		return Window{}, nil
	}

	return Window{Count: count, ResetAt: store.now().Add(ttl)}, nil
}
