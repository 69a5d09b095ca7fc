// Package cache provides an in-process TTL cache with single-flight loading.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// maxJoinAttempts bounds how often a caller re-issues a load after joining
// one that was cancelled by another caller's context.
const maxJoinAttempts = 3

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache maps string keys to values that expire after a fixed TTL.
// Concurrent GetOrCreate calls for the same missing key share one load.
// Failed loads are never cached.
type TTLCache[V any] struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]entry[V]
}

// New creates a cache whose entries live for ttl.
func New[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
}

// WithClock replaces the time source. Intended for tests.
func (c *TTLCache[V]) WithClock(now func() time.Time) *TTLCache[V] {
	c.now = now
	return c
}

// Get returns a live entry.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for one TTL.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetOrCreate returns the cached value for key, or runs load to produce it.
// At most one load per key is in flight; concurrent callers wait for it.
// hit reports whether the value came from the cache without loading.
// A caller whose ctx is done returns immediately with ctx.Err().
func (c *TTLCache[V]) GetOrCreate(ctx context.Context, key string, load func(ctx context.Context) (V, error)) (value V, hit bool, err error) {
	for attempt := 0; attempt < maxJoinAttempts; attempt++ {
		if v, ok := c.Get(key); ok {
			return v, true, nil
		}

		ch := c.group.DoChan(key, func() (any, error) {
			// A load that finished between the Get above and DoChan already stored it.
			if v, ok := c.Get(key); ok {
				return v, nil
			}
			v, err := load(ctx)
			if err != nil {
				return nil, err
			}
			c.Set(key, v)
			return v, nil
		})

		select {
		case <-ctx.Done():
			var zero V
			return zero, false, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				// The shared load ran under another caller's context.
				if res.Shared && ctx.Err() == nil && isContextErr(res.Err) {
					continue
				}
				var zero V
				return zero, false, res.Err
			}
			return res.Val.(V), false, nil
		}
	}
	var zero V
	return zero, false, context.Canceled
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
