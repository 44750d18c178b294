package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	hrapp "github.com/innledger/backend/internal/application/hr"
)

// HRService manages monthly staff costs
type HRService interface {
	List(ctx context.Context, q hrapp.ListQuery) ([]hrapp.CostResponse, error)
	Create(ctx context.Context, req hrapp.CreateCostRequest) (*hrapp.CostResponse, error)
	Update(ctx context.Context, id uuid.UUID, req hrapp.UpdateCostRequest) (*hrapp.CostResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MonthSummary(ctx context.Context, q hrapp.SummaryQuery) (*hrapp.SummaryResponse, error)
}

// HRHandler handles HR cost endpoints
type HRHandler struct {
	BaseHandler
	costs HRService
}

// NewHRHandler creates a new HRHandler
func NewHRHandler(costs HRService) *HRHandler {
	return &HRHandler{costs: costs}
}

// List lists costs by month and department
// @Router /hr/costs [get]
func (h *HRHandler) List(c *gin.Context) {
	var q hrapp.ListQuery
	if err := bindQuery(c, &q); err != nil {
		h.Fail(c, err)
		return
	}
	list, err := h.costs.List(c.Request.Context(), q)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, list)
}

// Summary returns headcount and cost per department for a month
// @Router /hr/costs/summary [get]
func (h *HRHandler) Summary(c *gin.Context) {
	var q hrapp.SummaryQuery
	if err := bindQuery(c, &q); err != nil {
		h.Fail(c, err)
		return
	}
	summary, err := h.costs.MonthSummary(c.Request.Context(), q)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, summary)
}

// Create records a cost line
// @Router /hr/costs [post]
func (h *HRHandler) Create(c *gin.Context) {
	var req hrapp.CreateCostRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	cost, err := h.costs.Create(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Created(c, cost)
}

// Update partially updates a cost line
// @Router /hr/costs/{id} [patch]
func (h *HRHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req hrapp.UpdateCostRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	cost, err := h.costs.Update(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, cost)
}

// Delete removes a cost line
// @Router /hr/costs/{id} [delete]
func (h *HRHandler) Delete(c *gin.Context) {
	h.deleteByID(c, h.costs.Delete)
}
