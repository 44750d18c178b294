package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/innledger/backend/internal/domain/notification"
)

// ListFilter represents query options for the notification list
type ListFilter struct {
	UnreadOnly bool `form:"unreadOnly"`
	Limit      int  `form:"limit" binding:"omitempty,min=1,max=200"`
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"isRead"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	RefType   string     `json:"refType,omitempty"`
	RefID     *uuid.UUID `json:"refId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// UnreadCountResponse carries the unread badge count
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkAllReadResponse reports how many notifications changed
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// ToNotificationResponse converts a domain notification to its response
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		RefType:   n.RefType,
		RefID:     n.RefID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
