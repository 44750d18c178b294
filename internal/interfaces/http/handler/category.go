package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	paymentapp "github.com/innledger/backend/internal/application/payment"
)

// CatalogService manages the categories and projects payment items refer to
type CatalogService interface {
	ListCategories(ctx context.Context) ([]paymentapp.CategoryResponse, error)
	CreateCategory(ctx context.Context, req paymentapp.CategoryRequest) (*paymentapp.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req paymentapp.CategoryPatch) (*paymentapp.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListProjects(ctx context.Context) ([]paymentapp.ProjectResponse, error)
	CreateProject(ctx context.Context, req paymentapp.ProjectRequest) (*paymentapp.ProjectResponse, error)
	UpdateProject(ctx context.Context, id uuid.UUID, req paymentapp.ProjectPatch) (*paymentapp.ProjectResponse, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
}

// CatalogHandler handles category and project endpoints
type CatalogHandler struct {
	BaseHandler
	catalog CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCategories godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200 {object} dto.Response{data=[]paymentapp.CategoryResponse}
// @Router       /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	list, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, list)
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body paymentapp.CategoryRequest true "Category"
// @Success      201 {object} dto.Response{data=paymentapp.CategoryResponse}
// @Failure      400 {object} ErrorResponse
// @Router       /categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req paymentapp.CategoryRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	cat, err := h.catalog.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Created(c, cat)
}

// UpdateCategory godoc
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Category ID"
// @Param        request body paymentapp.CategoryPatch true "Fields to change"
// @Success      200 {object} dto.Response{data=paymentapp.CategoryResponse}
// @Router       /categories/{id} [patch]
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req paymentapp.CategoryPatch
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	cat, err := h.catalog.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, cat)
}

// DeleteCategory godoc
// @Summary      Delete a category
// @Description  Fails with 400 while payment items still reference the category
// @Tags         categories
// @Param        id path string true "Category ID"
// @Success      204
// @Router       /categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	h.deleteByID(c, h.catalog.DeleteCategory)
}

// ListProjects lists projects
// @Router /projects [get]
func (h *CatalogHandler) ListProjects(c *gin.Context) {
	list, err := h.catalog.ListProjects(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, list)
}

// CreateProject creates a project
// @Router /projects [post]
func (h *CatalogHandler) CreateProject(c *gin.Context) {
	var req paymentapp.ProjectRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	p, err := h.catalog.CreateProject(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Created(c, p)
}

// UpdateProject partially updates a project
// @Router /projects/{id} [patch]
func (h *CatalogHandler) UpdateProject(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req paymentapp.ProjectPatch
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	p, err := h.catalog.UpdateProject(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, p)
}

// DeleteProject deletes an unreferenced project
// @Router /projects/{id} [delete]
func (h *CatalogHandler) DeleteProject(c *gin.Context) {
	h.deleteByID(c, h.catalog.DeleteProject)
}
