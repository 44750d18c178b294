package household

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/innledger/backend/internal/domain/household"
)

// ListQuery filters budgets by month
type ListQuery struct {
	Month string `form:"month" binding:"omitempty,yearmonth"`
}

// SummaryQuery selects the month to total
type SummaryQuery struct {
	Month string `form:"month" binding:"required,yearmonth"`
}

// CreateBudgetRequest represents a request to create a budget line
type CreateBudgetRequest struct {
	Month        string          `json:"month" binding:"required,yearmonth"`
	Category     string          `json:"category" binding:"required,max=100"`
	BudgetAmount decimal.Decimal `json:"budgetAmount"`
	ActualAmount decimal.Decimal `json:"actualAmount"`
	Notes        string          `json:"notes" binding:"max=2000"`
}

// UpdateBudgetRequest represents a partial update of a budget line
type UpdateBudgetRequest struct {
	Month        *string          `json:"month" binding:"omitempty,yearmonth"`
	Category     *string          `json:"category" binding:"omitempty,min=1,max=100"`
	BudgetAmount *decimal.Decimal `json:"budgetAmount"`
	ActualAmount *decimal.Decimal `json:"actualAmount"`
	Notes        *string          `json:"notes" binding:"omitempty,max=2000"`
}

// BudgetResponse represents a budget line in API responses
type BudgetResponse struct {
	ID           uuid.UUID       `json:"id"`
	Month        string          `json:"month"`
	Category     string          `json:"category"`
	BudgetAmount decimal.Decimal `json:"budgetAmount"`
	ActualAmount decimal.Decimal `json:"actualAmount"`
	Remaining    decimal.Decimal `json:"remaining"`
	OverBudget   bool            `json:"overBudget"`
	Notes        string          `json:"notes"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// SummaryResponse totals one month
type SummaryResponse struct {
	Month           string          `json:"month"`
	BudgetTotal     decimal.Decimal `json:"budgetTotal"`
	ActualTotal     decimal.Decimal `json:"actualTotal"`
	Remaining       decimal.Decimal `json:"remaining"`
	OverBudgetCount int             `json:"overBudgetCount"`
}

// ToBudgetResponse converts a domain budget
func ToBudgetResponse(b *household.Budget) BudgetResponse {
	return BudgetResponse{
		ID:           b.ID,
		Month:        b.Month.String(),
		Category:     b.Category,
		BudgetAmount: b.BudgetAmount,
		ActualAmount: b.ActualAmount,
		Remaining:    b.Remaining(),
		OverBudget:   b.OverBudget(),
		Notes:        b.Notes,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}
