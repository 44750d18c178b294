package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/innledger/backend/internal/domain/assistant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings(model string) *assistant.Settings {
	return &assistant.Settings{
		Key:     assistant.DefaultSettingsKey,
		BaseURL: "https://llm.example.com/v1",
		Model:   model,
		Enabled: true,
	}
}

func TestInMemorySettingsCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemorySettingsCache()

	got, err := c.Get(ctx, assistant.DefaultSettingsKey)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, testSettings("small"), time.Minute))
	got, err = c.Get(ctx, assistant.DefaultSettingsKey)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "small", got.Model)

	t.Run("returns copies", func(t *testing.T) {
		got.Model = "mutated"
		again, _ := c.Get(ctx, assistant.DefaultSettingsKey)
		assert.Equal(t, "small", again.Model)
	})

	t.Run("expires", func(t *testing.T) {
		now := time.Now()
		c.now = func() time.Time { return now.Add(2 * time.Minute) }
		defer func() { c.now = time.Now }()
		expired, err := c.Get(ctx, assistant.DefaultSettingsKey)
		require.NoError(t, err)
		assert.Nil(t, expired)
	})

	require.NoError(t, c.Invalidate(ctx, assistant.DefaultSettingsKey))
	got, _ = c.Get(ctx, assistant.DefaultSettingsKey)
	assert.Nil(t, got)

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(3), misses)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (*assistant.Settings, error) {
	return nil, errors.New("connection refused")
}

func (failingCache) Set(context.Context, *assistant.Settings, time.Duration) error {
	return errors.New("connection refused")
}

func (failingCache) Invalidate(context.Context, string) error {
	return errors.New("connection refused")
}

func TestTieredSettingsCache(t *testing.T) {
	ctx := context.Background()

	t.Run("refills L1 from L2", func(t *testing.T) {
		l1, l2 := NewInMemorySettingsCache(), NewInMemorySettingsCache()
		tiered := NewTieredSettingsCache(l1, l2, time.Minute, nil)
		require.NoError(t, l2.Set(ctx, testSettings("shared"), time.Minute))

		got, err := tiered.Get(ctx, assistant.DefaultSettingsKey)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "shared", got.Model)

		fromL1, _ := l1.Get(ctx, assistant.DefaultSettingsKey)
		require.NotNil(t, fromL1)
		assert.Equal(t, "shared", fromL1.Model)
	})

	t.Run("invalidate clears both tiers", func(t *testing.T) {
		l1, l2 := NewInMemorySettingsCache(), NewInMemorySettingsCache()
		tiered := NewTieredSettingsCache(l1, l2, time.Minute, nil)
		require.NoError(t, tiered.Set(ctx, testSettings("old"), time.Minute))
		require.NoError(t, tiered.Invalidate(ctx, assistant.DefaultSettingsKey))

		got, err := tiered.Get(ctx, assistant.DefaultSettingsKey)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("L2 outage degrades to a miss", func(t *testing.T) {
		tiered := NewTieredSettingsCache(NewInMemorySettingsCache(), failingCache{}, time.Minute, nil)
		got, err := tiered.Get(ctx, assistant.DefaultSettingsKey)
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, tiered.Set(ctx, testSettings("local"), time.Minute))
		got, _ = tiered.Get(ctx, assistant.DefaultSettingsKey)
		require.NotNil(t, got)
		assert.Equal(t, "local", got.Model)

		assert.Error(t, tiered.Invalidate(ctx, assistant.DefaultSettingsKey))
	})
}

func TestNewSettingsCache_FallsBackWithoutRedis(t *testing.T) {
	c := NewSettingsCache(nil, nil)
	_, ok := c.(*InMemorySettingsCache)
	assert.True(t, ok)
}
