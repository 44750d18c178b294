package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/innledger/backend/internal/domain/assistant"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const settingsKeyPrefix = "innledger:ai_settings:"

// settingsEntry is the JSON shape stored in Redis
type settingsEntry struct {
	Key             string    `json:"key"`
	BaseURL         string    `json:"baseUrl"`
	Model           string    `json:"model"`
	EncryptedAPIKey string    `json:"encryptedApiKey"`
	SystemPrompt    string    `json:"systemPrompt"`
	Temperature     float64   `json:"temperature"`
	Enabled         bool      `json:"enabled"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// RedisSettingsCache implements assistant.SettingsCache on Redis so that every
// replica sees the same settings
type RedisSettingsCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisSettingsCache creates a cache on an existing client.
// The caller retains ownership of the client.
func NewRedisSettingsCache(client *redis.Client, logger *zap.Logger) *RedisSettingsCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSettingsCache{client: client, logger: logger}
}

// Get loads settings from Redis; a missing key is a miss, not an error
func (c *RedisSettingsCache) Get(ctx context.Context, key string) (*assistant.Settings, error) {
	data, err := c.client.Get(ctx, settingsKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings from cache: %w", err)
	}

	var entry settingsEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("Dropping undecodable settings cache entry", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, settingsKeyPrefix+key).Err()
		return nil, nil
	}
	return &assistant.Settings{
		Key:             entry.Key,
		BaseURL:         entry.BaseURL,
		Model:           entry.Model,
		EncryptedAPIKey: entry.EncryptedAPIKey,
		SystemPrompt:    entry.SystemPrompt,
		Temperature:     entry.Temperature,
		Enabled:         entry.Enabled,
		UpdatedAt:       entry.UpdatedAt,
	}, nil
}

// Set stores settings with ttl
func (c *RedisSettingsCache) Set(ctx context.Context, s *assistant.Settings, ttl time.Duration) error {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(settingsEntry{
		Key:             s.Key,
		BaseURL:         s.BaseURL,
		Model:           s.Model,
		EncryptedAPIKey: s.EncryptedAPIKey,
		SystemPrompt:    s.SystemPrompt,
		Temperature:     s.Temperature,
		Enabled:         s.Enabled,
		UpdatedAt:       s.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := c.client.Set(ctx, settingsKeyPrefix+s.Key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set settings in cache: %w", err)
	}
	return nil
}

// Invalidate deletes the cached settings
func (c *RedisSettingsCache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, settingsKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate settings cache: %w", err)
	}
	return nil
}
