package revenue

import (
	"context"
	"time"

	"github.com/innledger/backend/internal/domain/shared"
)

// PmsSource reads monthly branch revenue from the invoicing system
type PmsSource interface {
	FetchMonthly(ctx context.Context, month shared.YearMonth) ([]PmsRecord, error)
}

// PmSource reads transactions from the hotel-management system. The
// implementation follows the upstream pagination until it is exhausted.
type PmSource interface {
	FetchRange(ctx context.Context, start, end time.Time) ([]PmRecord, error)
}
