package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// CategoryModel is the persistence model for payment categories
type CategoryModel struct {
	BaseModel
	Name      string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Kind      string `gorm:"type:varchar(20);not null;default:'expense'"`
	Color     string `gorm:"type:varchar(20)"`
	SortOrder int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string { return "categories" }

// ToDomain converts the model to a domain Category
func (m *CategoryModel) ToDomain() *payment.Category {
	return &payment.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Kind:       payment.CategoryKind(m.Kind),
		Color:      m.Color,
		SortOrder:  m.SortOrder,
	}
}

// CategoryModelFromDomain converts a domain Category to a model
func CategoryModelFromDomain(c *payment.Category) *CategoryModel {
	m := &CategoryModel{Name: c.Name, Kind: string(c.Kind), Color: c.Color, SortOrder: c.SortOrder}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// ProjectModel is the persistence model for projects
type ProjectModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string { return "projects" }

// ToDomain converts the model to a domain Project
func (m *ProjectModel) ToDomain() *payment.Project {
	return &payment.Project{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
	}
}

// ProjectModelFromDomain converts a domain Project to a model
func ProjectModelFromDomain(p *payment.Project) *ProjectModel {
	m := &ProjectModel{Name: p.Name, Description: p.Description, IsActive: p.IsActive}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// PaymentItemModel is the persistence model for payment items
type PaymentItemModel struct {
	AggregateModel
	ItemName          string          `gorm:"type:varchar(200);not null"`
	Description       string          `gorm:"type:text"`
	ProjectID         *uuid.UUID      `gorm:"type:uuid;index"`
	CategoryID        *uuid.UUID      `gorm:"type:uuid;index"`
	ItemType          string          `gorm:"type:varchar(20);not null;default:'single'"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status            string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	DueDate           *time.Time      `gorm:"type:date;index"`
	InstallmentNo     *int
	InstallmentTotal  *int
	RecurringInterval *string `gorm:"type:varchar(20)"`
	Notes             string  `gorm:"type:text"`
	IsDeleted         bool    `gorm:"not null;default:false;index"`
	DeletedAt         *time.Time
}

// TableName returns the table name for GORM
func (PaymentItemModel) TableName() string { return "payment_items" }

// ToDomain converts the model to a domain PaymentItem
func (m *PaymentItemModel) ToDomain() *payment.PaymentItem {
	item := &payment.PaymentItem{
		BaseAggregateRoot: m.AggregateModel.ToDomainAggregateRoot(),
		ItemName:          m.ItemName,
		Description:       m.Description,
		ProjectID:         m.ProjectID,
		CategoryID:        m.CategoryID,
		ItemType:          payment.ItemType(m.ItemType),
		TotalAmount:       m.TotalAmount,
		PaidAmount:        m.PaidAmount,
		Status:            payment.ItemStatus(m.Status),
		DueDate:           m.DueDate,
		InstallmentNo:     m.InstallmentNo,
		InstallmentTotal:  m.InstallmentTotal,
		Notes:             m.Notes,
		IsDeleted:         m.IsDeleted,
		DeletedAt:         m.DeletedAt,
	}
	if m.RecurringInterval != nil {
		interval := payment.RecurringInterval(*m.RecurringInterval)
		item.RecurringInterval = &interval
	}
	return item
}

// PaymentItemModelFromDomain converts a domain PaymentItem to a model
func PaymentItemModelFromDomain(i *payment.PaymentItem) *PaymentItemModel {
	m := &PaymentItemModel{
		ItemName:         i.ItemName,
		Description:      i.Description,
		ProjectID:        i.ProjectID,
		CategoryID:       i.CategoryID,
		ItemType:         string(i.ItemType),
		TotalAmount:      i.TotalAmount,
		PaidAmount:       i.PaidAmount,
		Status:           string(i.Status),
		DueDate:          i.DueDate,
		InstallmentNo:    i.InstallmentNo,
		InstallmentTotal: i.InstallmentTotal,
		Notes:            i.Notes,
		IsDeleted:        i.IsDeleted,
		DeletedAt:        i.DeletedAt,
	}
	if i.RecurringInterval != nil {
		interval := string(*i.RecurringInterval)
		m.RecurringInterval = &interval
	}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	return m
}

// PaymentRecordModel is the persistence model for payment records
type PaymentRecordModel struct {
	BaseModel
	ItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAt time.Time       `gorm:"type:date;not null"`
	Method string          `gorm:"type:varchar(20);not null;default:'transfer'"`
	Note   string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentRecordModel) TableName() string { return "payment_records" }

// ToDomain converts the model to a domain PaymentRecord
func (m *PaymentRecordModel) ToDomain() *payment.PaymentRecord {
	return &payment.PaymentRecord{
		BaseEntity: m.BaseModel.ToDomain(),
		ItemID:     m.ItemID,
		Amount:     m.Amount,
		PaidAt:     m.PaidAt,
		Method:     payment.Method(m.Method),
		Note:       m.Note,
	}
}

// PaymentRecordModelFromDomain converts a domain PaymentRecord to a model
func PaymentRecordModelFromDomain(r *payment.PaymentRecord) *PaymentRecordModel {
	m := &PaymentRecordModel{ItemID: r.ItemID, Amount: r.Amount, PaidAt: r.PaidAt, Method: string(r.Method), Note: r.Note}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
