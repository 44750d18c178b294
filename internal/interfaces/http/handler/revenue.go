package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	revenueapp "github.com/innledger/backend/internal/application/revenue"
)

// RevenueService compares and synchronizes PMS and PM revenue
type RevenueService interface {
	Compare(ctx context.Context, q revenueapp.CompareQuery) (*revenueapp.CompareResponse, error)
	SyncPms(ctx context.Context, req revenueapp.SyncPmsRequest) (*revenueapp.SyncPmsResponse, error)
	SyncPm(ctx context.Context, req revenueapp.SyncPmRequest) (*revenueapp.SyncPmResponse, error)
}

// RevenueHandler handles the revenue bridge endpoints
type RevenueHandler struct {
	BaseHandler
	revenue RevenueService
}

// NewRevenueHandler creates a new RevenueHandler
func NewRevenueHandler(revenue RevenueService) *RevenueHandler {
	return &RevenueHandler{revenue: revenue}
}

// Compare godoc
// @Summary      Compare PMS and PM revenue
// @Description  Month-by-month comparison of stored PMS and PM revenue over an inclusive month range
// @Tags         revenue
// @Produce      json
// @Param        startMonth query string true "First month (YYYY-MM)"
// @Param        endMonth   query string true "Last month (YYYY-MM)"
// @Success      200 {object} dto.Response{data=revenueapp.CompareResponse}
// @Failure      400 {object} ErrorResponse
// @Router       /pms-bridge/compare [get]
func (h *RevenueHandler) Compare(c *gin.Context) {
	var q revenueapp.CompareQuery
	if err := bindQuery(c, &q); err != nil {
		h.Fail(c, err)
		return
	}
	result, err := h.revenue.Compare(c.Request.Context(), q)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, result)
}

// SyncPms godoc
// @Summary      Sync PMS revenue
// @Description  Pulls monthly branch revenue from the PMS and upserts it. Partial failures reply 200 with status=partial.
// @Tags         revenue
// @Accept       json
// @Produce      json
// @Param        request body revenueapp.SyncPmsRequest true "Month range"
// @Success      200 {object} dto.Response{data=revenueapp.SyncPmsResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /pms-bridge/sync [post]
func (h *RevenueHandler) SyncPms(c *gin.Context) {
	var req revenueapp.SyncPmsRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	result, err := h.revenue.SyncPms(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, result)
}

// SyncPm godoc
// @Summary      Sync PM transactions
// @Description  Pulls every transaction page in the date range; existing records are skipped
// @Tags         revenue
// @Accept       json
// @Produce      json
// @Param        request body revenueapp.SyncPmRequest true "Date range"
// @Success      200 {object} dto.Response{data=revenueapp.SyncPmResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /pm-bridge/sync [post]
func (h *RevenueHandler) SyncPm(c *gin.Context) {
	var req revenueapp.SyncPmRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	result, err := h.revenue.SyncPm(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, result)
}
