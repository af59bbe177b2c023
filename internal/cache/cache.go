// Package cache provides a small generic TTL cache used by the API
// client for rarely-changing lookups such as the company list.
package cache

import (
	"sync"
	"time"
)

// TTL is a concurrency-safe cache whose entries expire after a fixed
// duration. A zero or negative TTL disables caching entirely, which
// keeps call sites free of conditionals.
type TTL[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]entry[T]
	nowFn func() time.Time
}

type entry[T any] struct {
	data      T
	expiresAt time.Time
}

// NewTTL creates a cache with the given entry lifetime.
func NewTTL[T any](ttl time.Duration) *TTL[T] {
	return &TTL[T]{
		ttl:   ttl,
		items: make(map[string]entry[T]),
		nowFn: time.Now,
	}
}

// Get retrieves a value, reporting whether a live entry was found.
func (c *TTL[T]) Get(key string) (T, bool) {
	var zero T
	if c.ttl <= 0 {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if c.nowFn().After(e.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return e.data, true
}

// Set stores a value under the key for one TTL period.
func (c *TTL[T]) Set(key string, data T) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[T]{data: data, expiresAt: c.nowFn().Add(c.ttl)}
}

// Delete removes a key, typically after a mutation invalidates it.
func (c *TTL[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// CleanExpired removes expired entries and returns how many were dropped.
func (c *TTL[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFn()
	removed := 0
	for k, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

// Size returns the current number of entries, expired or not.
func (c *TTL[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
