package settings

import (
	"context"
	"log"
	"sync"
	"time"
)

// Cache memoizes the settings row for a fixed TTL. It replaces the old
// process-wide memoized lookup with an explicit object: callers hold a
// *Cache, the TTL is injected, and Invalidate forces a reload after an
// admin edit.
type Cache struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	cached  *StoreSettings
	expires time.Time
}

func NewCache(repo Repository, ttl time.Duration) *Cache {
	return &Cache{repo: repo, ttl: ttl, now: time.Now}
}

// Get returns the cached settings, reloading after the TTL elapses.
// A load failure falls back to Defaults and is not cached, so the next
// call retries the repository.
func (c *Cache) Get(ctx context.Context) StoreSettings {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.now().Before(c.expires) {
		return *c.cached
	}

	loaded, err := c.repo.Load(ctx)
	if err != nil {
		log.Printf("[Settings] Failed to load settings, serving defaults: %v", err)
		return Defaults()
	}

	c.cached = loaded
	c.expires = c.now().Add(c.ttl)
	return *loaded
}

// Invalidate drops the cached value. The next Get reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.expires = time.Time{}
}
