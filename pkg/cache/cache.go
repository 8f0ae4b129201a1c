// Package cache is the memoization port used by the outer layers for derived
// envelopes and other lookups. The geometry kernel never imports it.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Port is the get/set contract callers depend on. A ttl of zero means the
// implementation's default.
type Port[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
}

// Stats counts lookups since the cache was created.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Len    int   `json:"len"`
}

// TTL is a capacity-bounded Port whose entries expire.
type TTL[K comparable, V any] struct {
	cache  *ttlcache.Cache[K, V]
	hits   atomic.Int64
	misses atomic.Int64
}

var _ Port[string, int] = (*TTL[string, int])(nil)

// NewTTL creates a cache holding at most capacity entries, each living for
// defaultTTL unless Set says otherwise. Call Start to run expiry in the
// background and Stop to end it.
func NewTTL[K comparable, V any](capacity uint64, defaultTTL time.Duration) *TTL[K, V] {
	return &TTL[K, V]{
		cache: ttlcache.New(
			ttlcache.WithCapacity[K, V](capacity),
			ttlcache.WithTTL[K, V](defaultTTL),
		),
	}
}

// Get returns the live value for key. Hits do not extend the entry's life.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	item := c.cache.Get(key, ttlcache.WithDisableTouchOnHit[K, V]())
	if item == nil {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return item.Value(), true
}

// Set stores value under key.
func (c *TTL[K, V]) Set(key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}
	c.cache.Set(key, value, ttl)
}

// Delete drops key.
func (c *TTL[K, V]) Delete(key K) {
	c.cache.Delete(key)
}

// Len returns the number of stored entries, expired ones included until the
// next cleanup.
func (c *TTL[K, V]) Len() int {
	return c.cache.Len()
}

// Stats returns hit and miss counts.
func (c *TTL[K, V]) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Len: c.cache.Len()}
}

// Start runs the expiry loop until Stop is called. It blocks, so callers
// run it in its own goroutine.
func (c *TTL[K, V]) Start() {
	c.cache.Start()
}

// Stop ends the expiry loop.
func (c *TTL[K, V]) Stop() {
	c.cache.Stop()
}
