package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	notificationapp "github.com/innledger/backend/internal/application/notification"
)

// NotificationService reads and acknowledges notifications
type NotificationService interface {
	List(ctx context.Context, filter notificationapp.ListFilter) ([]notificationapp.NotificationResponse, error)
	UnreadCount(ctx context.Context) (*notificationapp.UnreadCountResponse, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*notificationapp.NotificationResponse, error)
	MarkAllRead(ctx context.Context) (*notificationapp.MarkAllReadResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	BaseHandler
	notifications NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the newest notifications first
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var filter notificationapp.ListFilter
	if err := bindQuery(c, &filter); err != nil {
		h.Fail(c, err)
		return
	}
	list, err := h.notifications.List(c.Request.Context(), filter)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, list)
}

// UnreadCount returns the unread badge count
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notifications.UnreadCount(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, count)
}

// MarkRead marks one notification as read
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	n, err := h.notifications.MarkRead(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, n)
}

// MarkAllRead marks every unread notification as read
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	result, err := h.notifications.MarkAllRead(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, result)
}

// Delete removes a notification
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	h.deleteByID(c, h.notifications.Delete)
}
