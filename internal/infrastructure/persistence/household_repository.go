package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/household"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormHouseholdBudgetRepository implements household.Repository using GORM
type GormHouseholdBudgetRepository struct {
	db *gorm.DB
}

// NewGormHouseholdBudgetRepository creates a new GormHouseholdBudgetRepository
func NewGormHouseholdBudgetRepository(db *gorm.DB) *GormHouseholdBudgetRepository {
	return &GormHouseholdBudgetRepository{db: db}
}

// FindByID finds a budget line by its ID
func (r *GormHouseholdBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*household.Budget, error) {
	var model models.HouseholdBudgetModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Household budget")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByMonth lists budget lines, optionally for a single month
func (r *GormHouseholdBudgetRepository) FindByMonth(ctx context.Context, month *shared.YearMonth) ([]household.Budget, error) {
	query := conn(ctx, r.db)
	if month != nil {
		query = query.Where("month = ?", month.String())
	}
	var rows []models.HouseholdBudgetModel
	if err := query.Order("month DESC, category ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	budgets := make([]household.Budget, len(rows))
	for i := range rows {
		budgets[i] = *rows[i].ToDomain()
	}
	return budgets, nil
}

// ExistsByMonthCategory checks whether another line already covers (month, category)
func (r *GormHouseholdBudgetRepository) ExistsByMonthCategory(ctx context.Context, month shared.YearMonth, category string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := conn(ctx, r.db).Model(&models.HouseholdBudgetModel{}).
		Where("month = ? AND LOWER(category) = ?", month.String(), strings.ToLower(strings.TrimSpace(category)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a budget line. A concurrent writer that claimed the
// same (month, category) first surfaces as ALREADY_EXISTS.
func (r *GormHouseholdBudgetRepository) Save(ctx context.Context, budget *household.Budget) error {
	err := conn(ctx, r.db).Save(models.HouseholdBudgetModelFromDomain(budget)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError(shared.CodeAlreadyExists,
			"A budget for "+budget.Category+" in "+budget.Month.String()+" already exists")
	}
	return err
}

// Delete removes a budget line
func (r *GormHouseholdBudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.HouseholdBudgetModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Household budget")
	}
	return nil
}
