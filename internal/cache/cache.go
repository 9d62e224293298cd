// Package cache provides a thread-safe in-memory quote cache with TTL.
// It lets the app skip refetching symbols that were fetched moments ago,
// for example right after a group switch.
package cache

import (
	"sync"
	"time"

	"github.com/tickertop/tickertop/pkg/models"
)

// DefaultTTL is how long a cached quote stays fresh.
const DefaultTTL = 30 * time.Second

type entry struct {
	quote     models.Quote
	expiresAt time.Time
}

// QuoteCache stores recent quotes keyed by symbol. Expired entries behave
// exactly like absent ones. The clock is injectable for tests.
type QuoteCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func New(ttl time.Duration) *QuoteCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &QuoteCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock overrides the cache's time source.
func (c *QuoteCache) WithClock(now func() time.Time) *QuoteCache {
	c.now = now
	return c
}

// Get returns the cached quote for the symbol if it has not expired.
func (c *QuoteCache) Get(symbol string) (models.Quote, bool) {
	c.mu.RLock()
	e, ok := c.entries[symbol]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expiresAt) {
		return models.Quote{}, false
	}
	return e.quote, true
}

// Put stores a quote under its symbol, resetting its expiry.
func (c *QuoteCache) Put(q models.Quote) {
	c.mu.Lock()
	c.entries[q.Symbol] = entry{quote: q, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// PutAll stores every quote in the batch.
func (c *QuoteCache) PutAll(quotes []models.Quote) {
	c.mu.Lock()
	expires := c.now().Add(c.ttl)
	for _, q := range quotes {
		c.entries[q.Symbol] = entry{quote: q, expiresAt: expires}
	}
	c.mu.Unlock()
}

// Invalidate removes a symbol from the cache.
func (c *QuoteCache) Invalidate(symbol string) {
	c.mu.Lock()
	delete(c.entries, symbol)
	c.mu.Unlock()
}

// Flush removes all entries.
func (c *QuoteCache) Flush() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// PurgeExpired removes entries past their expiry. Get already treats them
// as absent; this just reclaims memory on long-running sessions.
func (c *QuoteCache) PurgeExpired() {
	c.mu.Lock()
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *QuoteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
