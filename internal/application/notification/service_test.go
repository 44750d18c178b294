package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/innledger/backend/internal/domain/notification"
	"github.com/innledger/backend/internal/domain/shared"
)

// MockRepository is a mock implementation of notification.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context, filter notification.ListFilter) ([]notification.Notification, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockRepository) CountUnread(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ExistsForRef(ctx context.Context, typ notification.Type, refID uuid.UUID, since time.Time) (bool, error) {
	args := m.Called(ctx, typ, refID, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockRepository) MarkAllRead(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestService_Notify(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()
	refID := uuid.New()

	repo.On("Save", ctx, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.Type == notification.TypePayment && n.Title == "Paid" && n.RefID != nil && *n.RefID == refID
	})).Return(nil).Once()

	svc.Notify(ctx, notification.TypePayment, "Paid", "all settled", WithRef("payment_item", refID))
	repo.AssertExpectations(t)
}

func TestService_Notify_FailureIsLoggedOnly(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := new(MockRepository)
	svc := NewService(repo, zap.New(core))
	ctx := context.Background()

	repo.On("Save", ctx, mock.Anything).Return(errors.New("db down")).Once()

	assert.NotPanics(t, func() {
		svc.Notify(ctx, notification.TypeRevenue, "Sync", "done")
	})
	assert.Equal(t, 1, logs.FilterMessage("Failed to write notification").Len())
}

func TestService_NotifyOnce(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	now := time.Date(2024, 5, 6, 15, 0, 0, 0, time.UTC)
	ctx := shared.WithRequestContext(context.Background(), shared.RequestContext{Now: now})
	refID := uuid.New()
	midnight := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

	repo.On("ExistsForRef", ctx, notification.TypeOverdue, refID, midnight).Return(false, nil).Once()
	repo.On("Save", ctx, mock.Anything).Return(nil).Once()
	created, err := svc.NotifyOnce(ctx, notification.TypeOverdue, "payment_item", refID, "Overdue", "rent")
	require.NoError(t, err)
	assert.True(t, created)

	repo.On("ExistsForRef", ctx, notification.TypeOverdue, refID, midnight).Return(true, nil).Once()
	created, err = svc.NotifyOnce(ctx, notification.TypeOverdue, "payment_item", refID, "Overdue", "rent")
	require.NoError(t, err)
	assert.False(t, created)

	repo.AssertNumberOfCalls(t, "Save", 1)
}

func TestService_FormatAmount(t *testing.T) {
	svc := NewService(new(MockRepository), zap.NewNop())
	assert.Equal(t, "1,234,567.89", svc.FormatAmount(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "0.00", svc.FormatAmount(decimal.Zero))
}

func TestService_MarkRead(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	n, err := notification.New(notification.TypeSystem, "hello", "")
	require.NoError(t, err)
	repo.On("FindByID", ctx, n.ID).Return(n, nil)
	repo.On("Save", ctx, n).Return(nil)

	resp, err := svc.MarkRead(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsRead)
	assert.NotNil(t, resp.ReadAt)
}

func TestService_Delete_NotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()
	id := uuid.New()

	repo.On("FindByID", ctx, id).Return(nil, shared.NewNotFoundError("notification"))

	err := svc.Delete(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_ListAndCounts(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	n, _ := notification.New(notification.TypeSystem, "a", "")
	repo.On("FindAll", ctx, notification.ListFilter{UnreadOnly: true, Limit: 10}).Return([]notification.Notification{*n}, nil)
	repo.On("CountUnread", ctx).Return(int64(1), nil)
	repo.On("MarkAllRead", ctx, mock.AnythingOfType("time.Time")).Return(int64(1), nil)

	list, err := svc.List(ctx, ListFilter{UnreadOnly: true, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	count, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Count)

	updated, err := svc.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Updated)
}
