// Package hr implements the payroll cost use cases.
package hr

import (
	"context"

	"github.com/google/uuid"

	"github.com/innledger/backend/internal/domain/hr"
	"github.com/innledger/backend/internal/domain/shared"
)

// Service handles HR costs
type Service struct {
	repo hr.Repository
}

// NewService creates a new HR service
func NewService(repo hr.Repository) *Service {
	return &Service{repo: repo}
}

// List returns costs filtered by month and department
func (s *Service) List(ctx context.Context, q ListQuery) ([]CostResponse, error) {
	filter := hr.Filter{Department: q.Department}
	if q.Month != "" {
		m, err := shared.ParseYearMonth(q.Month)
		if err != nil {
			return nil, err
		}
		filter.Month = &m
	}
	costs, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]CostResponse, 0, len(costs))
	for i := range costs {
		out = append(out, ToCostResponse(&costs[i]))
	}
	return out, nil
}

// Create records a cost line
func (s *Service) Create(ctx context.Context, req CreateCostRequest) (*CostResponse, error) {
	month, err := shared.ParseYearMonth(req.Month)
	if err != nil {
		return nil, err
	}
	cost, err := hr.NewCost(month, req.EmployeeName, req.Department, hr.Amounts{
		BaseSalary: req.BaseSalary,
		Allowance:  req.Allowance,
		Insurance:  req.Insurance,
		Bonus:      req.Bonus,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, cost); err != nil {
		return nil, err
	}
	resp := ToCostResponse(cost)
	return &resp, nil
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCostRequest) (*CostResponse, error) {
	cost, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Month != nil {
		month, err := shared.ParseYearMonth(*req.Month)
		if err != nil {
			return nil, err
		}
		cost.Month = month
	}
	if req.EmployeeName != nil || req.Department != nil {
		employee, department := cost.EmployeeName, cost.Department
		if req.EmployeeName != nil {
			employee = *req.EmployeeName
		}
		if req.Department != nil {
			department = *req.Department
		}
		if err := cost.SetEmployee(employee, department); err != nil {
			return nil, err
		}
	}

	amounts := hr.Amounts{
		BaseSalary: cost.BaseSalary,
		Allowance:  cost.Allowance,
		Insurance:  cost.Insurance,
		Bonus:      cost.Bonus,
	}
	if req.BaseSalary != nil {
		amounts.BaseSalary = *req.BaseSalary
	}
	if req.Allowance != nil {
		amounts.Allowance = *req.Allowance
	}
	if req.Insurance != nil {
		amounts.Insurance = *req.Insurance
	}
	if req.Bonus != nil {
		amounts.Bonus = *req.Bonus
	}
	if err := cost.SetAmounts(amounts); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, cost); err != nil {
		return nil, err
	}
	resp := ToCostResponse(cost)
	return &resp, nil
}

// Delete removes a cost line
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// MonthSummary totals a month by department
func (s *Service) MonthSummary(ctx context.Context, q SummaryQuery) (*SummaryResponse, error) {
	month, err := shared.ParseYearMonth(q.Month)
	if err != nil {
		return nil, err
	}
	costs, err := s.repo.FindAll(ctx, hr.Filter{Month: &month})
	if err != nil {
		return nil, err
	}
	sum := hr.Summarize(month, costs)
	resp := &SummaryResponse{
		Month:        sum.Month.String(),
		Headcount:    sum.Headcount,
		TotalCost:    sum.TotalCost,
		ByDepartment: make([]DepartmentResponse, 0, len(sum.ByDepartment)),
	}
	for _, d := range sum.ByDepartment {
		resp.ByDepartment = append(resp.ByDepartment, DepartmentResponse{
			Department: d.Department,
			Headcount:  d.Headcount,
			TotalCost:  d.TotalCost,
		})
	}
	return resp, nil
}
