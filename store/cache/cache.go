// Package cache provides a small in-memory TTL cache used by the store for
// hot rows (users, onboarding profiles). A single process serves a personal
// system, so no shared cache tier is needed.
package cache

import (
	"sync"
	"time"
)

// Config holds the cache configuration.
type Config struct {
	// DefaultTTL is the lifetime of an entry.
	DefaultTTL time.Duration
	// CleanupInterval is how often expired entries are swept.
	CleanupInterval time.Duration
	// MaxItems bounds the cache size; inserts beyond it evict the entry
	// closest to expiry.
	MaxItems int
	// OnEviction, if set, is called with each evicted key/value.
	OnEviction func(key string, value any)
}

type item struct {
	value     any
	expiresAt time.Time
}

// Cache is a TTL cache safe for concurrent use.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]item
	config Config
	done   chan struct{}
	once   sync.Once
}

// New creates a cache and starts its cleanup goroutine.
func New(config Config) *Cache {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 10 * time.Minute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = time.Minute
	}

	c := &Cache{
		items:  make(map[string]item),
		config: config,
		done:   make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Get returns the value for key, if present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(it.expiresAt) {
		return nil, false
	}
	return it.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.config.DefaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config.MaxItems > 0 && len(c.items) >= c.config.MaxItems {
		if _, exists := c.items[key]; !exists {
			c.evictOneLocked()
		}
	}
	c.items[key] = item{value: value, expiresAt: time.Now().Add(ttl)}
}

// Delete removes key from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Close stops the cleanup goroutine.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.done) })
}

// evictOneLocked drops the entry closest to expiry. Caller holds the lock.
func (c *Cache) evictOneLocked() {
	var victim string
	var soonest time.Time
	for k, it := range c.items {
		if victim == "" || it.expiresAt.Before(soonest) {
			victim = k
			soonest = it.expiresAt
		}
	}
	if victim != "" {
		if c.config.OnEviction != nil {
			c.config.OnEviction(victim, c.items[victim].value)
		}
		delete(c.items, victim)
	}
}

func (c *Cache) janitor() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for k, it := range c.items {
				if now.After(it.expiresAt) {
					if c.config.OnEviction != nil {
						c.config.OnEviction(k, it.value)
					}
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
