package hr

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Cost is one employee's payroll cost for a month
type Cost struct {
	shared.BaseEntity
	Month        shared.YearMonth
	EmployeeName string
	Department   string
	BaseSalary   decimal.Decimal
	Allowance    decimal.Decimal
	Insurance    decimal.Decimal
	Bonus        decimal.Decimal
}

// Amounts groups the cost components
type Amounts struct {
	BaseSalary decimal.Decimal
	Allowance  decimal.Decimal
	Insurance  decimal.Decimal
	Bonus      decimal.Decimal
}

// NewCost creates an HR cost line
func NewCost(month shared.YearMonth, employee, department string, amounts Amounts) (*Cost, error) {
	if month.IsZero() {
		return nil, shared.NewInvalidInputError("month is required")
	}
	c := &Cost{BaseEntity: shared.NewBaseEntity(), Month: month}
	if err := c.SetEmployee(employee, department); err != nil {
		return nil, err
	}
	if err := c.SetAmounts(amounts); err != nil {
		return nil, err
	}
	return c, nil
}

// SetEmployee validates and sets the employee and department
func (c *Cost) SetEmployee(employee, department string) error {
	employee = strings.TrimSpace(employee)
	if employee == "" {
		return shared.NewInvalidInputError("employeeName is required")
	}
	c.EmployeeName = employee
	c.Department = strings.TrimSpace(department)
	return nil
}

// SetAmounts validates and sets the cost components
func (c *Cost) SetAmounts(a Amounts) error {
	for _, v := range []decimal.Decimal{a.BaseSalary, a.Allowance, a.Insurance, a.Bonus} {
		if err := shared.ValidateNonNegativeAmount("Cost amount", v); err != nil {
			return err
		}
	}
	c.BaseSalary = a.BaseSalary
	c.Allowance = a.Allowance
	c.Insurance = a.Insurance
	c.Bonus = a.Bonus
	c.Touch()
	return nil
}

// TotalCost returns the sum of all components
func (c *Cost) TotalCost() decimal.Decimal {
	return c.BaseSalary.Add(c.Allowance).Add(c.Insurance).Add(c.Bonus)
}

// DepartmentTotal is the cost of one department
type DepartmentTotal struct {
	Department string
	Headcount  int
	TotalCost  decimal.Decimal
}

// MonthSummary totals a month of HR costs
type MonthSummary struct {
	Month        shared.YearMonth
	Headcount    int
	TotalCost    decimal.Decimal
	ByDepartment []DepartmentTotal
}

// Summarize totals costs by department, departments sorted by name
func Summarize(month shared.YearMonth, costs []Cost) MonthSummary {
	s := MonthSummary{Month: month, Headcount: len(costs), ByDepartment: []DepartmentTotal{}}
	byDept := make(map[string]*DepartmentTotal)
	for i := range costs {
		total := costs[i].TotalCost()
		s.TotalCost = s.TotalCost.Add(total)
		d, ok := byDept[costs[i].Department]
		if !ok {
			d = &DepartmentTotal{Department: costs[i].Department}
			byDept[costs[i].Department] = d
		}
		d.Headcount++
		d.TotalCost = d.TotalCost.Add(total)
	}
	for _, d := range byDept {
		s.ByDepartment = append(s.ByDepartment, *d)
	}
	sort.Slice(s.ByDepartment, func(i, j int) bool {
		return s.ByDepartment[i].Department < s.ByDepartment[j].Department
	})
	return s
}

// Filter narrows an HR cost listing
type Filter struct {
	Month      *shared.YearMonth
	Department string
}

// Repository persists HR costs
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Cost, error)
	FindAll(ctx context.Context, filter Filter) ([]Cost, error)
	Save(ctx context.Context, cost *Cost) error
	Delete(ctx context.Context, id uuid.UUID) error
}
