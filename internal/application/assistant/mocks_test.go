package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	appnotification "github.com/innledger/backend/internal/application/notification"
	apppayment "github.com/innledger/backend/internal/application/payment"
	apprevenue "github.com/innledger/backend/internal/application/revenue"
	"github.com/innledger/backend/internal/domain/assistant"
)

// MockSettingsRepository is a mock implementation of assistant.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
	loads atomic.Int32
}

func (m *MockSettingsRepository) Load(ctx context.Context, key string) (*assistant.Settings, error) {
	m.loads.Add(1)
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	copied := *args.Get(0).(*assistant.Settings)
	return &copied, args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings *assistant.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// mapCache is a trivial assistant.SettingsCache
type mapCache struct {
	mu          sync.Mutex
	entries     map[string]assistant.Settings
	invalidated int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]assistant.Settings)}
}

func (c *mapCache) Get(_ context.Context, key string) (*assistant.Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *mapCache) Set(_ context.Context, s *assistant.Settings, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[s.Key] = *s
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.invalidated++
	return nil
}

// prefixSealer "encrypts" by prefixing
type prefixSealer struct{}

func (prefixSealer) Encrypt(plaintext string) (string, error) { return "sealed:" + plaintext, nil }

func (prefixSealer) Decrypt(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, "sealed:") {
		return "", errors.New("bad ciphertext")
	}
	return strings.TrimPrefix(ciphertext, "sealed:"), nil
}

// staticResolver returns fixed settings
type staticResolver struct {
	resolved *ResolvedSettings
	err      error
}

func (r staticResolver) Resolve(context.Context) (*ResolvedSettings, error) {
	return r.resolved, r.err
}

// scriptedModel replays one chunk script per completion request. When the
// script runs out the last entry repeats.
type scriptedModel struct {
	scripts  [][]assistant.StreamChunk
	err      error
	requests []assistant.CompletionRequest
}

func (m *scriptedModel) StreamCompletion(ctx context.Context, req assistant.CompletionRequest, onChunk func(assistant.StreamChunk) error) error {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return m.err
	}
	i := len(m.requests) - 1
	if i >= len(m.scripts) {
		i = len(m.scripts) - 1
	}
	for _, chunk := range m.scripts[i] {
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
	return nil
}

// MockPaymentReader is a mock implementation of PaymentReader
type MockPaymentReader struct {
	mock.Mock
}

func (m *MockPaymentReader) List(ctx context.Context, q apppayment.ListItemsQuery) (*apppayment.ItemList, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppayment.ItemList), args.Error(1)
}

func (m *MockPaymentReader) Summary(ctx context.Context) (*apppayment.SummaryResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppayment.SummaryResponse), args.Error(1)
}

// MockRevenueComparer is a mock implementation of RevenueComparer
type MockRevenueComparer struct {
	mock.Mock
}

func (m *MockRevenueComparer) Compare(ctx context.Context, q apprevenue.CompareQuery) (*apprevenue.CompareResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apprevenue.CompareResponse), args.Error(1)
}

// MockNotificationReader is a mock implementation of NotificationReader
type MockNotificationReader struct {
	mock.Mock
}

func (m *MockNotificationReader) List(ctx context.Context, filter appnotification.ListFilter) ([]appnotification.NotificationResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appnotification.NotificationResponse), args.Error(1)
}
