package notification

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/shared"
)

// Type classifies a notification
type Type string

const (
	TypePayment Type = "payment"
	TypeRevenue Type = "revenue"
	TypeOverdue Type = "overdue"
	TypeSystem  Type = "system"
)

// IsValid checks if the type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypePayment, TypeRevenue, TypeOverdue, TypeSystem:
		return true
	}
	return false
}

// Notification is an in-app message
type Notification struct {
	shared.BaseEntity
	Type    Type
	Title   string
	Message string
	IsRead  bool
	ReadAt  *time.Time
	RefType string
	RefID   *uuid.UUID
}

// New creates an unread notification
func New(typ Type, title, message string) (*Notification, error) {
	if !typ.IsValid() {
		typ = TypeSystem
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewInvalidInputError("notification title is required")
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		Type:       typ,
		Title:      title,
		Message:    message,
	}, nil
}

// WithRef links the notification to the entity it is about
func (n *Notification) WithRef(refType string, refID uuid.UUID) *Notification {
	n.RefType = refType
	n.RefID = &refID
	return n
}

// MarkRead marks the notification as read. Marking twice keeps the first read time.
func (n *Notification) MarkRead(now time.Time) {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.ReadAt = &now
	n.Touch()
}

// ListFilter narrows a notification listing
type ListFilter struct {
	UnreadOnly bool
	Limit      int
}

// Repository persists notifications
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Notification, error)
	CountUnread(ctx context.Context) (int64, error)
	// ExistsForRef reports whether a notification of typ for refID was created on or after since
	ExistsForRef(ctx context.Context, typ Type, refID uuid.UUID, since time.Time) (bool, error)
	Save(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context, now time.Time) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
