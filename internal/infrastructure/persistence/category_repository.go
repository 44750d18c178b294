package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/payment"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements payment.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Category, error) {
	var model models.CategoryModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Category")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists categories by sort order, then name
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]payment.Category, error) {
	var rows []models.CategoryModel
	if err := conn(ctx, r.db).Order("sort_order ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]payment.Category, len(rows))
	for i := range rows {
		categories[i] = *rows[i].ToDomain()
	}
	return categories, nil
}

// ExistsByName checks case-insensitively whether another category uses name
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := conn(ctx, r.db).Model(&models.CategoryModel{}).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *payment.Category) error {
	err := conn(ctx, r.db).Save(models.CategoryModelFromDomain(category)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Category "+category.Name+" already exists")
	}
	return err
}

// Delete removes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Category")
	}
	return nil
}

// GormProjectRepository implements payment.ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Project, error) {
	var model models.ProjectModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Project")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists active projects first, then by name
func (r *GormProjectRepository) FindAll(ctx context.Context) ([]payment.Project, error) {
	var rows []models.ProjectModel
	if err := conn(ctx, r.db).Order("is_active DESC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	projects := make([]payment.Project, len(rows))
	for i := range rows {
		projects[i] = *rows[i].ToDomain()
	}
	return projects, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, project *payment.Project) error {
	return conn(ctx, r.db).Save(models.ProjectModelFromDomain(project)).Error
}

// Delete removes a project
func (r *GormProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.ProjectModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Project")
	}
	return nil
}
