package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/innledger/backend/internal/domain/assistant"
	"github.com/innledger/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// l1SettingsTTL caps how long a replica serves settings from local memory
const l1SettingsTTL = 30 * time.Second

// NewRedisClient connects to Redis and verifies the connection.
// It returns nil, nil when Redis is not configured.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewSettingsCache picks the settings cache for the deployment: tiered over
// Redis when a client is available, in-memory otherwise.
func NewSettingsCache(client *redis.Client, logger *zap.Logger) assistant.SettingsCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		logger.Warn("Redis unavailable, using in-memory AI settings cache. " +
			"Settings updates on one replica reach others only after the cache TTL.")
		return NewInMemorySettingsCache()
	}
	logger.Info("Using Redis-backed AI settings cache")
	return NewTieredSettingsCache(NewInMemorySettingsCache(), NewRedisSettingsCache(client, logger), l1SettingsTTL, logger)
}
