// AngelaMos | 2026
// cache.go

package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Fetcher loads a value on cache miss.
type Fetcher func(ctx context.Context) (any, error)

type entry struct {
	value     any
	fetchedAt time.Time
}

// Cache is a per-instance read-through cache with TTL expiry. Each
// consumer owns its own instance through injection; there is no global
// cache and no cross-instance sharing. Concurrent misses for one key
// collapse into a single fetch.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	group   singleflight.Group
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewWithClock injects the time source, for tests that step time
// instead of sleeping.
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	c := New(ttl)
	c.now = now
	return c
}

// Get returns the cached value when it is still fresh, otherwise runs
// fetch and stores the result with the fetch timestamp. A failed fetch
// caches nothing.
func (c *Cache) Get(
	ctx context.Context,
	key string,
	fetch Fetcher,
) (any, error) {
	if value, ok := c.lookup(key); ok {
		return value, nil
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		// Another caller may have filled the entry while this one
		// waited on the flight group.
		if value, ok := c.lookup(key); ok {
			return value, nil
		}

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.store(key, value)
		return value, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Invalidate drops one key so the next read refetches.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len reports live (unexpired) entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, e := range c.entries {
		if c.fresh(e) {
			count++
		}
	}
	return count
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if !c.fresh(e) {
		delete(c.entries, key)
		return nil, false
	}

	return e.value, true
}

func (c *Cache) store(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, fetchedAt: c.now()}
}

func (c *Cache) fresh(e entry) bool {
	return c.now().Sub(e.fetchedAt) < c.ttl
}
