package household

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Budget is a monthly household budget line. (Month, Category) is unique.
type Budget struct {
	shared.BaseEntity
	Month        shared.YearMonth
	Category     string
	BudgetAmount decimal.Decimal
	ActualAmount decimal.Decimal
	Notes        string
}

// NewBudget creates a budget line
func NewBudget(month shared.YearMonth, category string, budget, actual decimal.Decimal, notes string) (*Budget, error) {
	b := &Budget{BaseEntity: shared.NewBaseEntity(), Month: month, Notes: notes}
	if month.IsZero() {
		return nil, shared.NewInvalidInputError("month is required")
	}
	if err := b.SetCategory(category); err != nil {
		return nil, err
	}
	if err := b.SetAmounts(budget, actual); err != nil {
		return nil, err
	}
	return b, nil
}

// SetCategory validates and sets the category
func (b *Budget) SetCategory(category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return shared.NewInvalidInputError("category is required")
	}
	b.Category = category
	return nil
}

// SetAmounts validates and sets both amounts
func (b *Budget) SetAmounts(budget, actual decimal.Decimal) error {
	if err := shared.ValidateNonNegativeAmount("Budget amount", budget); err != nil {
		return err
	}
	if err := shared.ValidateNonNegativeAmount("Actual amount", actual); err != nil {
		return err
	}
	b.BudgetAmount = budget
	b.ActualAmount = actual
	b.Touch()
	return nil
}

// Remaining returns BudgetAmount - ActualAmount
func (b *Budget) Remaining() decimal.Decimal {
	return b.BudgetAmount.Sub(b.ActualAmount)
}

// OverBudget reports whether actual spending exceeds the budget
func (b *Budget) OverBudget() bool {
	return b.ActualAmount.GreaterThan(b.BudgetAmount)
}

// MonthSummary totals a month of budgets
type MonthSummary struct {
	Month           shared.YearMonth
	BudgetTotal     decimal.Decimal
	ActualTotal     decimal.Decimal
	Remaining       decimal.Decimal
	OverBudgetCount int
}

// Summarize totals budgets for month
func Summarize(month shared.YearMonth, budgets []Budget) MonthSummary {
	s := MonthSummary{Month: month}
	for i := range budgets {
		s.BudgetTotal = s.BudgetTotal.Add(budgets[i].BudgetAmount)
		s.ActualTotal = s.ActualTotal.Add(budgets[i].ActualAmount)
		if budgets[i].OverBudget() {
			s.OverBudgetCount++
		}
	}
	s.Remaining = s.BudgetTotal.Sub(s.ActualTotal)
	return s
}

// Repository persists household budgets
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Budget, error)
	FindByMonth(ctx context.Context, month *shared.YearMonth) ([]Budget, error)
	ExistsByMonthCategory(ctx context.Context, month shared.YearMonth, category string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, budget *Budget) error
	Delete(ctx context.Context, id uuid.UUID) error
}
