package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/inbox"
	"github.com/innledger/backend/internal/domain/notification"
	"github.com/shopspring/decimal"
)

// NotificationModel is the persistence model for in-app notifications
type NotificationModel struct {
	BaseModel
	Type    string `gorm:"type:varchar(20);not null;index:idx_notification_ref,priority:1"`
	Title   string `gorm:"type:varchar(200);not null"`
	Message string `gorm:"type:text"`
	IsRead  bool   `gorm:"not null;default:false;index"`
	ReadAt  *time.Time
	RefType string     `gorm:"type:varchar(50)"`
	RefID   *uuid.UUID `gorm:"type:uuid;index:idx_notification_ref,priority:2"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string { return "notifications" }

// ToDomain converts the model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity: m.BaseModel.ToDomain(),
		Type:       notification.Type(m.Type),
		Title:      m.Title,
		Message:    m.Message,
		IsRead:     m.IsRead,
		ReadAt:     m.ReadAt,
		RefType:    m.RefType,
		RefID:      m.RefID,
	}
}

// NotificationModelFromDomain converts a domain Notification to a model
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{
		Type:    string(n.Type),
		Title:   n.Title,
		Message: n.Message,
		IsRead:  n.IsRead,
		ReadAt:  n.ReadAt,
		RefType: n.RefType,
		RefID:   n.RefID,
	}
	m.FromDomainBaseEntity(n.BaseEntity)
	return m
}

// InboxDocumentModel is the persistence model for inbox documents
type InboxDocumentModel struct {
	BaseModel
	Title        string           `gorm:"type:varchar(200);not null"`
	Sender       string           `gorm:"type:varchar(200)"`
	Source       string           `gorm:"type:varchar(20);not null"`
	DocumentType string           `gorm:"type:varchar(20);not null"`
	Amount       *decimal.Decimal `gorm:"type:decimal(18,2)"`
	ReceivedAt   time.Time        `gorm:"type:date;not null"`
	Status       string           `gorm:"type:varchar(20);not null;default:'new';index"`
	LinkedItemID *uuid.UUID       `gorm:"type:uuid"`
	Notes        string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InboxDocumentModel) TableName() string { return "inbox_documents" }

// ToDomain converts the model to a domain Document
func (m *InboxDocumentModel) ToDomain() *inbox.Document {
	return &inbox.Document{
		BaseEntity:   m.BaseModel.ToDomain(),
		Title:        m.Title,
		Sender:       m.Sender,
		Source:       inbox.Source(m.Source),
		DocumentType: inbox.DocumentType(m.DocumentType),
		Amount:       m.Amount,
		ReceivedAt:   m.ReceivedAt,
		Status:       inbox.Status(m.Status),
		LinkedItemID: m.LinkedItemID,
		Notes:        m.Notes,
	}
}

// InboxDocumentModelFromDomain converts a domain Document to a model
func InboxDocumentModelFromDomain(d *inbox.Document) *InboxDocumentModel {
	m := &InboxDocumentModel{
		Title:        d.Title,
		Sender:       d.Sender,
		Source:       string(d.Source),
		DocumentType: string(d.DocumentType),
		Amount:       d.Amount,
		ReceivedAt:   d.ReceivedAt,
		Status:       string(d.Status),
		LinkedItemID: d.LinkedItemID,
		Notes:        d.Notes,
	}
	m.FromDomainBaseEntity(d.BaseEntity)
	return m
}
