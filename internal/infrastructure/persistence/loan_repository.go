package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/loan"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLoanRepository implements loan.Repository using GORM
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// FindByID finds a loan record by its ID
func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.Record, error) {
	var model models.LoanRecordModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Loan record")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists records matching filter, latest start first
func (r *GormLoanRepository) FindAll(ctx context.Context, filter loan.Filter) ([]loan.Record, error) {
	query := conn(ctx, r.db)
	if filter.RecordType != "" {
		query = query.Where("record_type = ?", filter.RecordType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	var rows []models.LoanRecordModel
	if err := query.Order("start_date DESC, created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]loan.Record, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain()
	}
	return records, nil
}

// Save creates or updates a record without a version check
func (r *GormLoanRepository) Save(ctx context.Context, record *loan.Record) error {
	return conn(ctx, r.db).Save(models.LoanRecordModelFromDomain(record)).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormLoanRepository) SaveWithLock(ctx context.Context, record *loan.Record) error {
	model := models.LoanRecordModelFromDomain(record)
	result := conn(ctx, r.db).
		Model(&models.LoanRecordModel{}).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Select("*").
		Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConcurrencyConflict, "The loan record has been modified by another request")
	}
	return nil
}

// Delete removes a loan record
func (r *GormLoanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.LoanRecordModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Loan record")
	}
	return nil
}
