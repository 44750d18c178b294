package models

import (
	"time"

	"github.com/innledger/backend/internal/domain/household"
	"github.com/innledger/backend/internal/domain/hr"
	"github.com/innledger/backend/internal/domain/loan"
	"github.com/shopspring/decimal"
)

// HouseholdBudgetModel is the persistence model for household budget lines
type HouseholdBudgetModel struct {
	BaseModel
	Month        string          `gorm:"type:char(7);not null;uniqueIndex:uq_household_month_category,priority:1"`
	Category     string          `gorm:"type:varchar(100);not null;uniqueIndex:uq_household_month_category,priority:2"`
	BudgetAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ActualAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes        string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (HouseholdBudgetModel) TableName() string { return "household_budgets" }

// ToDomain converts the model to a domain Budget
func (m *HouseholdBudgetModel) ToDomain() *household.Budget {
	return &household.Budget{
		BaseEntity:   m.BaseModel.ToDomain(),
		Month:        monthOrZero(m.Month),
		Category:     m.Category,
		BudgetAmount: m.BudgetAmount,
		ActualAmount: m.ActualAmount,
		Notes:        m.Notes,
	}
}

// HouseholdBudgetModelFromDomain converts a domain Budget to a model
func HouseholdBudgetModelFromDomain(b *household.Budget) *HouseholdBudgetModel {
	m := &HouseholdBudgetModel{
		Month:        b.Month.String(),
		Category:     b.Category,
		BudgetAmount: b.BudgetAmount,
		ActualAmount: b.ActualAmount,
		Notes:        b.Notes,
	}
	m.FromDomainBaseEntity(b.BaseEntity)
	return m
}

// HRCostModel is the persistence model for monthly payroll costs
type HRCostModel struct {
	BaseModel
	Month        string          `gorm:"type:char(7);not null;index"`
	EmployeeName string          `gorm:"type:varchar(100);not null"`
	Department   string          `gorm:"type:varchar(100);index"`
	BaseSalary   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Allowance    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Insurance    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Bonus        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (HRCostModel) TableName() string { return "hr_costs" }

// ToDomain converts the model to a domain Cost
func (m *HRCostModel) ToDomain() *hr.Cost {
	return &hr.Cost{
		BaseEntity:   m.BaseModel.ToDomain(),
		Month:        monthOrZero(m.Month),
		EmployeeName: m.EmployeeName,
		Department:   m.Department,
		BaseSalary:   m.BaseSalary,
		Allowance:    m.Allowance,
		Insurance:    m.Insurance,
		Bonus:        m.Bonus,
	}
}

// HRCostModelFromDomain converts a domain Cost to a model
func HRCostModelFromDomain(c *hr.Cost) *HRCostModel {
	m := &HRCostModel{
		Month:        c.Month.String(),
		EmployeeName: c.EmployeeName,
		Department:   c.Department,
		BaseSalary:   c.BaseSalary,
		Allowance:    c.Allowance,
		Insurance:    c.Insurance,
		Bonus:        c.Bonus,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// LoanRecordModel is the persistence model for loans and investments
type LoanRecordModel struct {
	AggregateModel
	RecordType   string          `gorm:"type:varchar(20);not null;index"`
	Counterparty string          `gorm:"type:varchar(200);not null"`
	Principal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	InterestRate decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	StartDate    time.Time       `gorm:"type:date;not null"`
	MaturityDate *time.Time      `gorm:"type:date"`
	RepaidAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status       string          `gorm:"type:varchar(20);not null;default:'active';index"`
	Notes        string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LoanRecordModel) TableName() string { return "loan_records" }

// ToDomain converts the model to a domain Record
func (m *LoanRecordModel) ToDomain() *loan.Record {
	return &loan.Record{
		BaseAggregateRoot: m.AggregateModel.ToDomainAggregateRoot(),
		RecordType:        loan.RecordType(m.RecordType),
		Counterparty:      m.Counterparty,
		Principal:         m.Principal,
		InterestRate:      m.InterestRate,
		StartDate:         m.StartDate,
		MaturityDate:      m.MaturityDate,
		RepaidAmount:      m.RepaidAmount,
		Status:            loan.Status(m.Status),
		Notes:             m.Notes,
	}
}

// LoanRecordModelFromDomain converts a domain Record to a model
func LoanRecordModelFromDomain(r *loan.Record) *LoanRecordModel {
	m := &LoanRecordModel{
		RecordType:   string(r.RecordType),
		Counterparty: r.Counterparty,
		Principal:    r.Principal,
		InterestRate: r.InterestRate,
		StartDate:    r.StartDate,
		MaturityDate: r.MaturityDate,
		RepaidAmount: r.RepaidAmount,
		Status:       string(r.Status),
		Notes:        r.Notes,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}
