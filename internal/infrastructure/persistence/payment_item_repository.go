package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/payment"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var openStatuses = []string{string(payment.ItemStatusPending), string(payment.ItemStatusPartial)}

// GormPaymentItemRepository implements payment.ItemRepository using GORM
type GormPaymentItemRepository struct {
	db *gorm.DB
}

// NewGormPaymentItemRepository creates a new GormPaymentItemRepository
func NewGormPaymentItemRepository(db *gorm.DB) *GormPaymentItemRepository {
	return &GormPaymentItemRepository{db: db}
}

// FindByID finds a payment item by its ID, deleted or not
func (r *GormPaymentItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.PaymentItem, error) {
	var model models.PaymentItemModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Payment item")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of items matching filter and the total match count
func (r *GormPaymentItemRepository) FindAll(ctx context.Context, filter payment.ItemFilter) ([]payment.PaymentItem, int64, error) {
	query := r.applyItemFilter(conn(ctx, r.db).Model(&models.PaymentItemModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, PaymentItemSortFields, "created_at"))
	if !filter.IncludeAll {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.PaymentItemModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return itemsToDomain(rows), total, nil
}

// FindOverdue returns non-deleted pending or partial items due before today
func (r *GormPaymentItemRepository) FindOverdue(ctx context.Context, today time.Time) ([]payment.PaymentItem, error) {
	var rows []models.PaymentItemModel
	if err := conn(ctx, r.db).
		Where("is_deleted = ?", false).
		Where("status IN ? AND due_date IS NOT NULL AND due_date < ?", openStatuses, dateOnly(today)).
		Order("due_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return itemsToDomain(rows), nil
}

// Summarize aggregates non-deleted items, bucketing by effective status
func (r *GormPaymentItemRepository) Summarize(ctx context.Context, today time.Time) (*payment.Summary, error) {
	var buckets []struct {
		EffectiveStatus string
		ItemCount       int64
		TotalAmount     decimal.Decimal
		PaidAmount      decimal.Decimal
	}
	effective := "CASE WHEN status IN ('pending','partial') AND due_date IS NOT NULL AND due_date < ? THEN 'overdue' ELSE status END"
	if err := conn(ctx, r.db).
		Model(&models.PaymentItemModel{}).
		Select(effective+" AS effective_status, COUNT(*) AS item_count, COALESCE(SUM(total_amount), 0) AS total_amount, COALESCE(SUM(paid_amount), 0) AS paid_amount", dateOnly(today)).
		Where("is_deleted = ?", false).
		Group("effective_status").
		Scan(&buckets).Error; err != nil {
		return nil, err
	}

	summary := &payment.Summary{ByStatus: map[payment.ItemStatus]int64{
		payment.ItemStatusPending: 0,
		payment.ItemStatusPartial: 0,
		payment.ItemStatusPaid:    0,
		payment.ItemStatusOverdue: 0,
	}}
	for _, b := range buckets {
		summary.ItemCount += b.ItemCount
		summary.TotalAmount = summary.TotalAmount.Add(b.TotalAmount)
		summary.PaidAmount = summary.PaidAmount.Add(b.PaidAmount)
		summary.ByStatus[payment.ItemStatus(b.EffectiveStatus)] += b.ItemCount
		if payment.ItemStatus(b.EffectiveStatus) == payment.ItemStatusOverdue {
			summary.OverdueCount = b.ItemCount
			summary.OverdueAmount = b.TotalAmount.Sub(b.PaidAmount)
		}
	}
	summary.RemainingAmount = summary.TotalAmount.Sub(summary.PaidAmount)
	return summary, nil
}

// Create inserts a new payment item
func (r *GormPaymentItemRepository) Create(ctx context.Context, item *payment.PaymentItem) error {
	return conn(ctx, r.db).Create(models.PaymentItemModelFromDomain(item)).Error
}

// SaveWithLock saves with optimistic locking. Every column is written so that
// zero values such as a cleared due date are persisted.
func (r *GormPaymentItemRepository) SaveWithLock(ctx context.Context, item *payment.PaymentItem) error {
	model := models.PaymentItemModelFromDomain(item)
	result := conn(ctx, r.db).
		Model(&models.PaymentItemModel{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Select("*").
		Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConcurrencyConflict, "The payment item has been modified by another request")
	}
	return nil
}

// Delete removes the item and all of its payment records
func (r *GormPaymentItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)
	if err := db.Delete(&models.PaymentRecordModel{}, "item_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&models.PaymentItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Payment item")
	}
	return nil
}

// CountByCategory counts items referencing a category, deleted ones included
func (r *GormPaymentItemRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.PaymentItemModel{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// CountByProject counts items referencing a project, deleted ones included
func (r *GormPaymentItemRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.PaymentItemModel{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

// likeEscaper makes user search text match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (r *GormPaymentItemRepository) applyItemFilter(query *gorm.DB, filter payment.ItemFilter) *gorm.DB {
	query = query.Where("is_deleted = ?", filter.Deleted)

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		query = query.Where(`LOWER(item_name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(notes) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ItemType != "" {
		query = query.Where("item_type = ?", filter.ItemType)
	}

	today := dateOnly(filter.Today)
	switch filter.Status {
	case payment.ItemStatusOverdue:
		query = query.Where("status IN ? AND due_date IS NOT NULL AND due_date < ?", openStatuses, today)
	case payment.ItemStatusPending, payment.ItemStatusPartial:
		query = query.Where("status = ? AND (due_date IS NULL OR due_date >= ?)", filter.Status, today)
	case payment.ItemStatusPaid:
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

func itemsToDomain(rows []models.PaymentItemModel) []payment.PaymentItem {
	items := make([]payment.PaymentItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items
}

// dateOnly truncates t to midnight UTC of its calendar day
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
