package cache

import (
	"context"
	"time"

	"github.com/innledger/backend/internal/domain/assistant"
	"go.uber.org/zap"
)

// TieredSettingsCache implements a two-tier caching strategy.
// L1 is local memory, L2 is shared Redis. Reads fall through L1 to L2 and
// refill L1; invalidation clears both tiers.
type TieredSettingsCache struct {
	l1     assistant.SettingsCache
	l2     assistant.SettingsCache
	l1TTL  time.Duration
	logger *zap.Logger
}

// NewTieredSettingsCache creates a new tiered cache. l1TTL bounds how stale
// another replica's L1 may be after an update made elsewhere.
func NewTieredSettingsCache(l1, l2 assistant.SettingsCache, l1TTL time.Duration, logger *zap.Logger) *TieredSettingsCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TieredSettingsCache{l1: l1, l2: l2, l1TTL: l1TTL, logger: logger}
}

// Get retrieves settings from cache (L1 -> L2)
func (c *TieredSettingsCache) Get(ctx context.Context, key string) (*assistant.Settings, error) {
	if s, err := c.l1.Get(ctx, key); err == nil && s != nil {
		return s, nil
	}

	s, err := c.l2.Get(ctx, key)
	if err != nil {
		// a Redis outage degrades to a miss so the caller reads the database
		c.logger.Warn("L2 settings cache unavailable", zap.Error(err))
		return nil, nil
	}
	if s != nil {
		_ = c.l1.Set(ctx, s, c.l1TTL)
	}
	return s, nil
}

// Set writes both tiers
func (c *TieredSettingsCache) Set(ctx context.Context, s *assistant.Settings, ttl time.Duration) error {
	_ = c.l1.Set(ctx, s, min(ttl, c.l1TTL))
	if err := c.l2.Set(ctx, s, ttl); err != nil {
		c.logger.Warn("Failed to write L2 settings cache", zap.Error(err))
	}
	return nil
}

// Invalidate clears both tiers. An L2 failure is returned so the caller can
// report that other replicas may still see the old value.
func (c *TieredSettingsCache) Invalidate(ctx context.Context, key string) error {
	_ = c.l1.Invalidate(ctx, key)
	return c.l2.Invalidate(ctx, key)
}
