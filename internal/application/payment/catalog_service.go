package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/innledger/backend/internal/domain/payment"
	"github.com/innledger/backend/internal/domain/shared"
)

// CatalogService handles categories and projects
type CatalogService struct {
	categoryRepo payment.CategoryRepository
	projectRepo  payment.ProjectRepository
	itemRepo     payment.ItemRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(categoryRepo payment.CategoryRepository, projectRepo payment.ProjectRepository, itemRepo payment.ItemRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		projectRepo:  projectRepo,
		itemRepo:     itemRepo,
	}
}

// ListCategories returns all categories in display order
func (s *CatalogService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToCategoryResponse(&categories[i]))
	}
	return out, nil
}

// CreateCategory creates a category with a unique name
func (s *CatalogService) CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, req.Name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Category with this name already exists")
	}

	category, err := payment.NewCategory(req.Name, payment.CategoryKind(req.Kind), req.Color, req.SortOrder)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// UpdateCategory applies a partial update to a category
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req CategoryPatch) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, kind, color, sortOrder := category.Name, category.Kind, category.Color, category.SortOrder
	if req.Name != nil {
		name = *req.Name
		exists, err := s.categoryRepo.ExistsByName(ctx, name, &id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Category with this name already exists")
		}
	}
	if req.Kind != nil {
		kind = payment.CategoryKind(*req.Kind)
	}
	if req.Color != nil {
		color = *req.Color
	}
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	if err := category.Update(name, kind, color, sortOrder); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// DeleteCategory removes a category that no item references
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.itemRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewBusinessRuleError("Category is used by payment items and cannot be deleted")
	}
	return s.categoryRepo.Delete(ctx, id)
}

// ListProjects returns all projects
func (s *CatalogService) ListProjects(ctx context.Context) ([]ProjectResponse, error) {
	projects, err := s.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, ToProjectResponse(&projects[i]))
	}
	return out, nil
}

// CreateProject creates an active project
func (s *CatalogService) CreateProject(ctx context.Context, req ProjectRequest) (*ProjectResponse, error) {
	project, err := payment.NewProject(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}
	resp := ToProjectResponse(project)
	return &resp, nil
}

// UpdateProject applies a partial update to a project
func (s *CatalogService) UpdateProject(ctx context.Context, id uuid.UUID, req ProjectPatch) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if err := project.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.IsActive != nil {
		project.IsActive = *req.IsActive
	}
	project.Touch()
	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}
	resp := ToProjectResponse(project)
	return &resp, nil
}

// DeleteProject removes a project that no item references
func (s *CatalogService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if _, err := s.projectRepo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.itemRepo.CountByProject(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewBusinessRuleError("Project is used by payment items and cannot be deleted")
	}
	return s.projectRepo.Delete(ctx, id)
}
