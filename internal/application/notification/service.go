// Package notification holds the in-app notification use cases and the
// Notify entry point other services write through.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/innledger/backend/internal/domain/notification"
	"github.com/innledger/backend/internal/domain/shared"
)

// Service handles notification operations
type Service struct {
	repo    notification.Repository
	logger  *zap.Logger
	printer *message.Printer
}

// NewService creates a new notification service
func NewService(repo notification.Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		logger:  logger,
		printer: message.NewPrinter(language.English),
	}
}

// Option customizes a notification written through Notify
type Option func(n *notification.Notification)

// WithRef links the notification to the entity it is about
func WithRef(refType string, refID uuid.UUID) Option {
	return func(n *notification.Notification) {
		n.WithRef(refType, refID)
	}
}

// Notify writes a notification. It is best effort: a failure is logged and
// never returned, so the caller's operation is not affected.
func (s *Service) Notify(ctx context.Context, typ notification.Type, title, msg string, opts ...Option) {
	n, err := notification.New(typ, title, msg)
	if err != nil {
		s.logger.Warn("Invalid notification dropped", zap.String("title", title), zap.Error(err))
		return
	}
	for _, opt := range opts {
		opt(n)
	}
	if err := s.repo.Save(ctx, n); err != nil {
		s.logger.Warn("Failed to write notification",
			zap.String("type", string(typ)),
			zap.String("title", title),
			zap.Error(err),
		)
	}
}

// NotifyOnce writes the notification unless one of the same type for refID
// was already written since the start of the current day.
func (s *Service) NotifyOnce(ctx context.Context, typ notification.Type, refType string, refID uuid.UUID, title, msg string) (bool, error) {
	since := startOfDay(shared.Now(ctx))
	exists, err := s.repo.ExistsForRef(ctx, typ, refID, since)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	n, err := notification.New(typ, title, msg)
	if err != nil {
		return false, err
	}
	n.WithRef(refType, refID)
	if err := s.repo.Save(ctx, n); err != nil {
		return false, err
	}
	return true, nil
}

// FormatAmount renders an amount with two decimals and digit grouping
func (s *Service) FormatAmount(amount decimal.Decimal) string {
	return s.printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}

// Sprintf formats with the service's locale
func (s *Service) Sprintf(format string, args ...any) string {
	return s.printer.Sprintf(format, args...)
}

// List returns notifications newest first
func (s *Service) List(ctx context.Context, filter ListFilter) ([]NotificationResponse, error) {
	items, err := s.repo.FindAll(ctx, notification.ListFilter{UnreadOnly: filter.UnreadOnly, Limit: filter.Limit})
	if err != nil {
		return nil, err
	}
	out := make([]NotificationResponse, 0, len(items))
	for i := range items {
		out = append(out, ToNotificationResponse(&items[i]))
	}
	return out, nil
}

// UnreadCount returns the number of unread notifications
func (s *Service) UnreadCount(ctx context.Context) (*UnreadCountResponse, error) {
	count, err := s.repo.CountUnread(ctx)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Count: count}, nil
}

// MarkRead marks one notification as read
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	n.MarkRead(shared.Now(ctx).UTC())
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, err
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead marks every unread notification as read
func (s *Service) MarkAllRead(ctx context.Context) (*MarkAllReadResponse, error) {
	updated, err := s.repo.MarkAllRead(ctx, shared.Now(ctx).UTC())
	if err != nil {
		return nil, err
	}
	return &MarkAllReadResponse{Updated: updated}, nil
}

// Delete removes a notification
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).UTC()
}
