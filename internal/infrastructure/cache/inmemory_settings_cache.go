package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/innledger/backend/internal/domain/assistant"
)

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     *T
	expiresAt time.Time
}

// isExpired checks if the cache entry has expired
func (e *cacheEntry[T]) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemorySettingsCache implements assistant.SettingsCache in process memory.
// It backs single-instance deployments and is the L1 tier of TieredSettingsCache.
type InMemorySettingsCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry[assistant.Settings]
	now     func() time.Time

	hits   int64
	misses int64
}

// NewInMemorySettingsCache creates an empty in-memory cache
func NewInMemorySettingsCache() *InMemorySettingsCache {
	return &InMemorySettingsCache{
		entries: make(map[string]*cacheEntry[assistant.Settings]),
		now:     time.Now,
	}
}

// Get returns a copy of the cached settings, or nil when absent or expired
func (c *InMemorySettingsCache) Get(_ context.Context, key string) (*assistant.Settings, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || entry.isExpired(c.now()) {
		atomic.AddInt64(&c.misses, 1)
		return nil, nil
	}
	atomic.AddInt64(&c.hits, 1)
	copied := *entry.value
	return &copied, nil
}

// Set stores a copy of settings for ttl
func (c *InMemorySettingsCache) Set(_ context.Context, settings *assistant.Settings, ttl time.Duration) error {
	if settings == nil {
		return nil
	}
	copied := *settings
	c.mu.Lock()
	c.entries[settings.Key] = &cacheEntry[assistant.Settings]{value: &copied, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Invalidate drops the entry for key
func (c *InMemorySettingsCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Stats returns hit and miss counts
func (c *InMemorySettingsCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}
