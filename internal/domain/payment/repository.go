package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemFilter narrows a payment item listing
type ItemFilter struct {
	shared.Filter
	ProjectID  *uuid.UUID
	CategoryID *uuid.UUID
	// Status is matched against the effective status evaluated at Today
	Status   ItemStatus
	ItemType ItemType
	Deleted  bool
	// IncludeAll disables pagination
	IncludeAll bool
	Today      time.Time
}

// Summary aggregates non-deleted payment items
type Summary struct {
	ItemCount       int64
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	OverdueCount    int64
	OverdueAmount   decimal.Decimal
	ByStatus        map[ItemStatus]int64
}

// ItemRepository defines persistence for payment items
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentItem, error)
	FindAll(ctx context.Context, filter ItemFilter) ([]PaymentItem, int64, error)
	// FindOverdue returns non-deleted pending or partial items due before today
	FindOverdue(ctx context.Context, today time.Time) ([]PaymentItem, error)
	Summarize(ctx context.Context, today time.Time) (*Summary, error)
	Create(ctx context.Context, item *PaymentItem) error
	// SaveWithLock persists item only if the stored version is item.Version-1
	SaveWithLock(ctx context.Context, item *PaymentItem) error
	// Delete removes the item and all its payment records
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
}

// RecordRepository defines persistence for payment records
type RecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentRecord, error)
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]PaymentRecord, error)
	Create(ctx context.Context, record *PaymentRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository defines persistence for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectRepository defines persistence for projects
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindAll(ctx context.Context) ([]Project, error)
	Save(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}
