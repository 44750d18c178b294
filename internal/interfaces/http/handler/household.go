package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	householdapp "github.com/innledger/backend/internal/application/household"
)

// HouseholdService manages monthly household budgets
type HouseholdService interface {
	List(ctx context.Context, q householdapp.ListQuery) ([]householdapp.BudgetResponse, error)
	Create(ctx context.Context, req householdapp.CreateBudgetRequest) (*householdapp.BudgetResponse, error)
	Update(ctx context.Context, id uuid.UUID, req householdapp.UpdateBudgetRequest) (*householdapp.BudgetResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MonthSummary(ctx context.Context, q householdapp.SummaryQuery) (*householdapp.SummaryResponse, error)
}

// HouseholdHandler handles household budget endpoints
type HouseholdHandler struct {
	BaseHandler
	budgets HouseholdService
}

// NewHouseholdHandler creates a new HouseholdHandler
func NewHouseholdHandler(budgets HouseholdService) *HouseholdHandler {
	return &HouseholdHandler{budgets: budgets}
}

// List godoc
// @Summary      List budgets
// @Tags         household
// @Produce      json
// @Param        month query string false "Month (YYYY-MM)"
// @Success      200 {object} dto.Response{data=[]householdapp.BudgetResponse}
// @Router       /household/budgets [get]
func (h *HouseholdHandler) List(c *gin.Context) {
	var q householdapp.ListQuery
	if err := bindQuery(c, &q); err != nil {
		h.Fail(c, err)
		return
	}
	list, err := h.budgets.List(c.Request.Context(), q)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, list)
}

// Summary godoc
// @Summary      Month summary
// @Tags         household
// @Produce      json
// @Param        month query string true "Month (YYYY-MM)"
// @Success      200 {object} dto.Response{data=householdapp.SummaryResponse}
// @Router       /household/budgets/summary [get]
func (h *HouseholdHandler) Summary(c *gin.Context) {
	var q householdapp.SummaryQuery
	if err := bindQuery(c, &q); err != nil {
		h.Fail(c, err)
		return
	}
	summary, err := h.budgets.MonthSummary(c.Request.Context(), q)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, summary)
}

// Create adds a budget line; (month, category) must be unique
// @Router /household/budgets [post]
func (h *HouseholdHandler) Create(c *gin.Context) {
	var req householdapp.CreateBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	b, err := h.budgets.Create(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Created(c, b)
}

// Update partially updates a budget line
// @Router /household/budgets/{id} [patch]
func (h *HouseholdHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req householdapp.UpdateBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	b, err := h.budgets.Update(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, b)
}

// Delete removes a budget line
// @Router /household/budgets/{id} [delete]
func (h *HouseholdHandler) Delete(c *gin.Context) {
	h.deleteByID(c, h.budgets.Delete)
}
