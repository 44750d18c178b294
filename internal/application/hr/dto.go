package hr

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/innledger/backend/internal/domain/hr"
)

// ListQuery filters HR costs
type ListQuery struct {
	Month      string `form:"month" binding:"omitempty,yearmonth"`
	Department string `form:"department" binding:"max=100"`
}

// SummaryQuery selects the month to total
type SummaryQuery struct {
	Month string `form:"month" binding:"required,yearmonth"`
}

// CreateCostRequest represents a request to record a payroll cost
type CreateCostRequest struct {
	Month        string          `json:"month" binding:"required,yearmonth"`
	EmployeeName string          `json:"employeeName" binding:"required,max=100"`
	Department   string          `json:"department" binding:"max=100"`
	BaseSalary   decimal.Decimal `json:"baseSalary"`
	Allowance    decimal.Decimal `json:"allowance"`
	Insurance    decimal.Decimal `json:"insurance"`
	Bonus        decimal.Decimal `json:"bonus"`
}

// UpdateCostRequest represents a partial update of a payroll cost
type UpdateCostRequest struct {
	Month        *string          `json:"month" binding:"omitempty,yearmonth"`
	EmployeeName *string          `json:"employeeName" binding:"omitempty,min=1,max=100"`
	Department   *string          `json:"department" binding:"omitempty,max=100"`
	BaseSalary   *decimal.Decimal `json:"baseSalary"`
	Allowance    *decimal.Decimal `json:"allowance"`
	Insurance    *decimal.Decimal `json:"insurance"`
	Bonus        *decimal.Decimal `json:"bonus"`
}

// CostResponse represents a payroll cost in API responses
type CostResponse struct {
	ID           uuid.UUID       `json:"id"`
	Month        string          `json:"month"`
	EmployeeName string          `json:"employeeName"`
	Department   string          `json:"department"`
	BaseSalary   decimal.Decimal `json:"baseSalary"`
	Allowance    decimal.Decimal `json:"allowance"`
	Insurance    decimal.Decimal `json:"insurance"`
	Bonus        decimal.Decimal `json:"bonus"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// DepartmentResponse is one department's share of a month
type DepartmentResponse struct {
	Department string          `json:"department"`
	Headcount  int             `json:"headcount"`
	TotalCost  decimal.Decimal `json:"totalCost"`
}

// SummaryResponse totals one month
type SummaryResponse struct {
	Month        string               `json:"month"`
	Headcount    int                  `json:"headcount"`
	TotalCost    decimal.Decimal      `json:"totalCost"`
	ByDepartment []DepartmentResponse `json:"byDepartment"`
}

// ToCostResponse converts a domain cost
func ToCostResponse(c *hr.Cost) CostResponse {
	return CostResponse{
		ID:           c.ID,
		Month:        c.Month.String(),
		EmployeeName: c.EmployeeName,
		Department:   c.Department,
		BaseSalary:   c.BaseSalary,
		Allowance:    c.Allowance,
		Insurance:    c.Insurance,
		Bonus:        c.Bonus,
		TotalCost:    c.TotalCost(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
