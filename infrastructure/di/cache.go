package di

import (
	"context"
	"sync"
	"time"
)

// cacheSweepInterval is how often expired entries are evicted.
const cacheSweepInterval = time.Minute

// ListingCache is the process-local store behind the query bus caching
// middleware. Only the outline listing read model is cached; section and
// mind-map views are rebuilt per request so edits stay visible.
type ListingCache struct {
	mu    sync.RWMutex
	items map[string]cachedView
}

type cachedView struct {
	value     interface{}
	expiresAt time.Time
}

// NewListingCache creates an empty cache and starts its sweeper
func NewListingCache() *ListingCache {
	c := &ListingCache{items: make(map[string]cachedView)}
	go c.sweep()
	return c
}

// Get retrieves a cached view. Expired entries read as misses; the
// sweeper reclaims them later.
func (c *ListingCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	if !ok || time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

// Set stores a view with a TTL in seconds
func (c *ListingCache) Set(_ context.Context, key string, value interface{}, ttl int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cachedView{
		value:     value,
		expiresAt: time.Now().Add(time.Duration(ttl) * time.Second),
	}
	return nil
}

// Delete removes a single cached view
func (c *ListingCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

// Clear drops every cached view
func (c *ListingCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]cachedView)
	return nil
}

func (c *ListingCache) sweep() {
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, item := range c.items {
			if now.After(item.expiresAt) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
