package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/hr"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormHRCostRepository implements hr.Repository using GORM
type GormHRCostRepository struct {
	db *gorm.DB
}

// NewGormHRCostRepository creates a new GormHRCostRepository
func NewGormHRCostRepository(db *gorm.DB) *GormHRCostRepository {
	return &GormHRCostRepository{db: db}
}

// FindByID finds a cost line by its ID
func (r *GormHRCostRepository) FindByID(ctx context.Context, id uuid.UUID) (*hr.Cost, error) {
	var model models.HRCostModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("HR cost")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists cost lines matching filter
func (r *GormHRCostRepository) FindAll(ctx context.Context, filter hr.Filter) ([]hr.Cost, error) {
	query := conn(ctx, r.db)
	if filter.Month != nil {
		query = query.Where("month = ?", filter.Month.String())
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	var rows []models.HRCostModel
	if err := query.Order("month DESC, department ASC, employee_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	costs := make([]hr.Cost, len(rows))
	for i := range rows {
		costs[i] = *rows[i].ToDomain()
	}
	return costs, nil
}

// Save creates or updates a cost line
func (r *GormHRCostRepository) Save(ctx context.Context, cost *hr.Cost) error {
	return conn(ctx, r.db).Save(models.HRCostModelFromDomain(cost)).Error
}

// Delete removes a cost line
func (r *GormHRCostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.HRCostModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("HR cost")
	}
	return nil
}
