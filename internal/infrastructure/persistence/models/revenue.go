package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/revenue"
	"github.com/shopspring/decimal"
)

// PmsRevenueModel stores monthly branch revenue from the invoicing system
type PmsRevenueModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	Month      string          `gorm:"type:char(7);not null;uniqueIndex:uq_pms_branch_month,priority:2"`
	BranchID   string          `gorm:"type:varchar(64);not null;uniqueIndex:uq_pms_branch_month,priority:1"`
	BranchName string          `gorm:"type:varchar(200)"`
	BranchCode string          `gorm:"type:varchar(64)"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LastDate   *time.Time      `gorm:"type:date"`
	SyncedAt   time.Time       `gorm:"not null"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PmsRevenueModel) TableName() string { return "pms_revenue_records" }

// ToDomain converts the model to a domain PmsRecord
func (m *PmsRevenueModel) ToDomain() revenue.PmsRecord {
	return revenue.PmsRecord{
		ID:         m.ID,
		Month:      monthOrZero(m.Month),
		BranchID:   m.BranchID,
		BranchName: m.BranchName,
		BranchCode: m.BranchCode,
		Amount:     m.Amount,
		LastDate:   m.LastDate,
		SyncedAt:   m.SyncedAt,
	}
}

// PmsRevenueModelFromDomain converts a domain PmsRecord to a model
func PmsRevenueModelFromDomain(r revenue.PmsRecord, now time.Time) PmsRevenueModel {
	id := r.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return PmsRevenueModel{
		ID:         id,
		Month:      r.Month.String(),
		BranchID:   r.BranchID,
		BranchName: r.BranchName,
		BranchCode: r.BranchCode,
		Amount:     r.Amount,
		LastDate:   r.LastDate,
		SyncedAt:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// PmRevenueModel stores one transaction from the hotel-management system
type PmRevenueModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	RecordID    string          `gorm:"type:varchar(128);not null;uniqueIndex"`
	Date        time.Time       `gorm:"column:txn_date;type:date;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	BranchName  string          `gorm:"type:varchar(200)"`
	RoomNo      string          `gorm:"type:varchar(32)"`
	Description string          `gorm:"type:text"`
	SyncedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PmRevenueModel) TableName() string { return "pm_revenue_records" }

// ToDomain converts the model to a domain PmRecord
func (m *PmRevenueModel) ToDomain() revenue.PmRecord {
	return revenue.PmRecord{
		ID:          m.ID,
		RecordID:    m.RecordID,
		Date:        m.Date,
		Amount:      m.Amount,
		BranchName:  m.BranchName,
		RoomNo:      m.RoomNo,
		Description: m.Description,
		SyncedAt:    m.SyncedAt,
	}
}

// PmRevenueModelFromDomain converts a domain PmRecord to a model
func PmRevenueModelFromDomain(r revenue.PmRecord, now time.Time) PmRevenueModel {
	id := r.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return PmRevenueModel{
		ID:          id,
		RecordID:    r.RecordID,
		Date:        r.Date,
		Amount:      r.Amount,
		BranchName:  r.BranchName,
		RoomNo:      r.RoomNo,
		Description: r.Description,
		SyncedAt:    now,
	}
}
