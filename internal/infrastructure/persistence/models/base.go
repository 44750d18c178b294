package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel extends BaseModel with a version for optimistic locking
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToDomainAggregateRoot converts AggregateModel to domain BaseAggregateRoot
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain(), Version: m.Version}
}

func monthOrZero(s string) shared.YearMonth {
	ym, err := shared.ParseYearMonth(s)
	if err != nil {
		return shared.YearMonth{}
	}
	return ym
}

// AllModels lists every persistence model, in dependency order, for AutoMigrate in tests
func AllModels() []any {
	return []any{
		&CategoryModel{},
		&ProjectModel{},
		&PaymentItemModel{},
		&PaymentRecordModel{},
		&HouseholdBudgetModel{},
		&HRCostModel{},
		&LoanRecordModel{},
		&NotificationModel{},
		&InboxDocumentModel{},
		&PmsRevenueModel{},
		&PmRevenueModel{},
		&AISettingsModel{},
	}
}
