package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/notification"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const defaultNotificationLimit = 50

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Notification")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists the newest notifications
func (r *GormNotificationRepository) FindAll(ctx context.Context, filter notification.ListFilter) ([]notification.Notification, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	query := conn(ctx, r.db)
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	var rows []models.NotificationModel
	if err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	list := make([]notification.Notification, len(rows))
	for i := range rows {
		list[i] = *rows[i].ToDomain()
	}
	return list, nil
}

// CountUnread counts unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.NotificationModel{}).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

// ExistsForRef reports whether a notification of typ for refID was created on or after since
func (r *GormNotificationRepository) ExistsForRef(ctx context.Context, typ notification.Type, refID uuid.UUID, since time.Time) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.NotificationModel{}).
		Where("type = ? AND ref_id = ? AND created_at >= ?", typ, refID, since).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return conn(ctx, r.db).Save(models.NotificationModelFromDomain(n)).Error
}

// MarkAllRead marks every unread notification read and returns how many changed
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, now time.Time) (int64, error) {
	result := conn(ctx, r.db).Model(&models.NotificationModel{}).
		Where("is_read = ?", false).
		Updates(map[string]any{"is_read": true, "read_at": now, "updated_at": now})
	return result.RowsAffected, result.Error
}

// Delete removes a notification
func (r *GormNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.NotificationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Notification")
	}
	return nil
}
