// Package household implements the household budget use cases.
package household

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/innledger/backend/internal/domain/household"
	"github.com/innledger/backend/internal/domain/shared"
)

// Service handles household budgets
type Service struct {
	repo household.Repository
}

// NewService creates a new household service
func NewService(repo household.Repository) *Service {
	return &Service{repo: repo}
}

// List returns the budgets of one month, or all budgets when no month is given
func (s *Service) List(ctx context.Context, q ListQuery) ([]BudgetResponse, error) {
	var month *shared.YearMonth
	if q.Month != "" {
		m, err := shared.ParseYearMonth(q.Month)
		if err != nil {
			return nil, err
		}
		month = &m
	}
	budgets, err := s.repo.FindByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	out := make([]BudgetResponse, 0, len(budgets))
	for i := range budgets {
		out = append(out, ToBudgetResponse(&budgets[i]))
	}
	return out, nil
}

// Create adds a budget line. (month, category) must be unique.
func (s *Service) Create(ctx context.Context, req CreateBudgetRequest) (*BudgetResponse, error) {
	month, err := shared.ParseYearMonth(req.Month)
	if err != nil {
		return nil, err
	}
	budget, err := household.NewBudget(month, req.Category, req.BudgetAmount, req.ActualAmount, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, budget.Month, budget.Category, nil); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, budget); err != nil {
		return nil, err
	}
	resp := ToBudgetResponse(budget)
	return &resp, nil
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateBudgetRequest) (*BudgetResponse, error) {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Month != nil {
		month, err := shared.ParseYearMonth(*req.Month)
		if err != nil {
			return nil, err
		}
		budget.Month = month
	}
	if req.Category != nil {
		if err := budget.SetCategory(*req.Category); err != nil {
			return nil, err
		}
	}
	if req.BudgetAmount != nil || req.ActualAmount != nil {
		planned, actual := budget.BudgetAmount, budget.ActualAmount
		if req.BudgetAmount != nil {
			planned = *req.BudgetAmount
		}
		if req.ActualAmount != nil {
			actual = *req.ActualAmount
		}
		if err := budget.SetAmounts(planned, actual); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		budget.Notes = *req.Notes
	}
	if req.Month != nil || req.Category != nil {
		if err := s.ensureUnique(ctx, budget.Month, budget.Category, &budget.ID); err != nil {
			return nil, err
		}
	}
	budget.Touch()

	if err := s.repo.Save(ctx, budget); err != nil {
		return nil, err
	}
	resp := ToBudgetResponse(budget)
	return &resp, nil
}

// Delete removes a budget line
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// MonthSummary totals the budgets of a month
func (s *Service) MonthSummary(ctx context.Context, q SummaryQuery) (*SummaryResponse, error) {
	month, err := shared.ParseYearMonth(q.Month)
	if err != nil {
		return nil, err
	}
	budgets, err := s.repo.FindByMonth(ctx, &month)
	if err != nil {
		return nil, err
	}
	sum := household.Summarize(month, budgets)
	return &SummaryResponse{
		Month:           sum.Month.String(),
		BudgetTotal:     sum.BudgetTotal,
		ActualTotal:     sum.ActualTotal,
		Remaining:       sum.Remaining,
		OverBudgetCount: sum.OverBudgetCount,
	}, nil
}

func (s *Service) ensureUnique(ctx context.Context, month shared.YearMonth, category string, excludeID *uuid.UUID) error {
	exists, err := s.repo.ExistsByMonthCategory(ctx, month, category, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists,
			fmt.Sprintf("A budget for %s in %s already exists", category, month))
	}
	return nil
}
