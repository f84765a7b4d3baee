// Package memory is a small in-process TTL cache.
package memory

import (
	"context"
	"sync"
	"time"
)

const DefaultCleanupInterval = 5 * time.Minute

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache holds values until their TTL passes. A janitor goroutine evicts
// expired entries.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	now     func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// New starts a cache whose janitor runs every interval until ctx is done or
// Stop is called. A non-positive interval means DefaultCleanupInterval.
func New[V any](ctx context.Context, interval time.Duration) *Cache[V] {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	c := &Cache[V]{
		entries: make(map[string]entry[V]),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go c.janitor(ctx, interval)
	return c
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[V]) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *Cache[V]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}
