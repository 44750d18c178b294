package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	appnotification "github.com/innledger/backend/internal/application/notification"
	"github.com/innledger/backend/internal/domain/notification"
	"github.com/innledger/backend/internal/domain/payment"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockItemRepository is a mock implementation of payment.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.PaymentItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentItem), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter payment.ItemFilter) ([]payment.PaymentItem, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]payment.PaymentItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemRepository) FindOverdue(ctx context.Context, today time.Time) ([]payment.PaymentItem, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]payment.PaymentItem), args.Error(1)
}

func (m *MockItemRepository) Summarize(ctx context.Context, today time.Time) (*payment.Summary, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Summary), args.Error(1)
}

func (m *MockItemRepository) Create(ctx context.Context, item *payment.PaymentItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) SaveWithLock(ctx context.Context, item *payment.PaymentItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockItemRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

// MockRecordRepository is a mock implementation of payment.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.PaymentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentRecord), args.Error(1)
}

func (m *MockRecordRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]payment.PaymentRecord, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]payment.PaymentRecord), args.Error(1)
}

func (m *MockRecordRepository) Create(ctx context.Context, record *payment.PaymentRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockCategoryRepository is a mock implementation of payment.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]payment.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]payment.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *payment.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockProjectRepository is a mock implementation of payment.ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context) ([]payment.Project, error) {
	args := m.Called(ctx)
	return args.Get(0).([]payment.Project), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, project *payment.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type inTxKey struct{}

// passthroughTransactor runs fn directly, marking its context as transactional
type passthroughTransactor struct{}

func (passthroughTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, inTxKey{}, true))
}

// inTx matches contexts created by passthroughTransactor
func inTx() any {
	return mock.MatchedBy(func(ctx context.Context) bool {
		in, _ := ctx.Value(inTxKey{}).(bool)
		return in
	})
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, typ notification.Type, title, msg string, opts ...appnotification.Option) {
	m.Called(ctx, typ, title, msg)
}

func (m *MockNotifier) NotifyOnce(ctx context.Context, typ notification.Type, refType string, refID uuid.UUID, title, msg string) (bool, error) {
	args := m.Called(ctx, typ, refType, refID, title, msg)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotifier) FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
