package revenue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PmsRecord is one branch's monthly revenue as reported by the invoicing system.
// (BranchID, Month) is the natural key.
type PmsRecord struct {
	ID         uuid.UUID
	Month      shared.YearMonth
	BranchID   string
	BranchName string
	BranchCode string
	Amount     decimal.Decimal
	LastDate   *time.Time
	SyncedAt   time.Time
}

// PmRecord is one transaction from the hotel-management system.
// RecordID is the natural key.
type PmRecord struct {
	ID          uuid.UUID
	RecordID    string
	Date        time.Time
	Amount      decimal.Decimal
	BranchName  string
	RoomNo      string
	Description string
	SyncedAt    time.Time
}

// PmsRepository persists PMS revenue
type PmsRepository interface {
	// Upsert inserts or replaces the rows keyed by (branch_id, month) and returns the rows written
	Upsert(ctx context.Context, records []PmsRecord) (int64, error)
	FindByMonthRange(ctx context.Context, start, end shared.YearMonth) ([]PmsRecord, error)
}

// PmRepository persists PM revenue
type PmRepository interface {
	// InsertNew inserts records whose RecordID is not yet stored and returns how many were inserted
	InsertNew(ctx context.Context, records []PmRecord) (int64, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]PmRecord, error)
}
