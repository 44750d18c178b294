package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/payment"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRecordRepository implements payment.RecordRepository using GORM
type GormPaymentRecordRepository struct {
	db *gorm.DB
}

// NewGormPaymentRecordRepository creates a new GormPaymentRecordRepository
func NewGormPaymentRecordRepository(db *gorm.DB) *GormPaymentRecordRepository {
	return &GormPaymentRecordRepository{db: db}
}

// FindByID finds a payment record by its ID
func (r *GormPaymentRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.PaymentRecord, error) {
	var model models.PaymentRecordModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Payment record")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByItem lists an item's payments, newest first
func (r *GormPaymentRecordRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]payment.PaymentRecord, error) {
	var rows []models.PaymentRecordModel
	if err := conn(ctx, r.db).
		Where("item_id = ?", itemID).
		Order("paid_at DESC, created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]payment.PaymentRecord, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain()
	}
	return records, nil
}

// Create inserts a payment record
func (r *GormPaymentRecordRepository) Create(ctx context.Context, record *payment.PaymentRecord) error {
	return conn(ctx, r.db).Create(models.PaymentRecordModelFromDomain(record)).Error
}

// Delete removes a payment record
func (r *GormPaymentRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.PaymentRecordModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Payment record")
	}
	return nil
}
