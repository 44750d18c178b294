package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	paymentapp "github.com/innledger/backend/internal/application/payment"
)

// PaymentItemService is the part of the payment application the item
// endpoints use
type PaymentItemService interface {
	List(ctx context.Context, q paymentapp.ListItemsQuery) (*paymentapp.ItemList, error)
	Get(ctx context.Context, id uuid.UUID) (*paymentapp.ItemResponse, error)
	Create(ctx context.Context, req paymentapp.CreateItemRequest) (*paymentapp.ItemResponse, error)
	Update(ctx context.Context, id uuid.UUID, req paymentapp.UpdateItemRequest) (*paymentapp.ItemResponse, error)
	RecordPayment(ctx context.Context, id uuid.UUID, req paymentapp.RecordPaymentRequest) (*paymentapp.RecordPaymentResponse, error)
	ListPayments(ctx context.Context, itemID uuid.UUID) ([]paymentapp.RecordResponse, error)
	DeletePaymentRecord(ctx context.Context, recordID uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*paymentapp.ItemResponse, error)
	PermanentDelete(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context) (*paymentapp.SummaryResponse, error)
}

// PaymentHandler handles payment item and payment record endpoints
type PaymentHandler struct {
	BaseHandler
	items PaymentItemService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(items PaymentItemService) *PaymentHandler {
	return &PaymentHandler{items: items}
}

// ListItems godoc
// @Summary      List payment items
// @Description  Lists payment items filtered by project, category, effective status, type and search text. includeAll=true returns every row without pagination.
// @Tags         payment
// @Produce      json
// @Param        page        query int    false "Page number" default(1)
// @Param        limit       query int    false "Page size" default(20) maximum(100)
// @Param        projectId   query string false "Project ID"
// @Param        categoryId  query string false "Category ID"
// @Param        status      query string false "Effective status" Enums(pending, partial, paid, overdue)
// @Param        itemType    query string false "Item type" Enums(single, installment, recurring)
// @Param        search      query string false "Search in name, description and notes"
// @Param        deleted     query bool   false "Show the trash instead"
// @Param        includeAll  query bool   false "Disable pagination"
// @Success      200 {object} dto.Response{data=[]paymentapp.ItemResponse}
// @Failure      400 {object} ErrorResponse
// @Router       /payment/items [get]
func (h *PaymentHandler) ListItems(c *gin.Context) {
	var q paymentapp.ListItemsQuery
	if err := bindQuery(c, &q); err != nil {
		h.Fail(c, err)
		return
	}

	list, err := h.items.List(c.Request.Context(), q)
	if err != nil {
		h.Fail(c, err)
		return
	}
	if q.IncludeAll {
		h.Success(c, list.Items)
		return
	}
	h.Paginated(c, list.Items, list.Total, list.Page, list.Limit)
}

// Summary godoc
// @Summary      Payment summary
// @Description  Totals over all non-deleted items, including overdue count and amount
// @Tags         payment
// @Produce      json
// @Success      200 {object} dto.Response{data=paymentapp.SummaryResponse}
// @Router       /payment/items/summary [get]
func (h *PaymentHandler) Summary(c *gin.Context) {
	summary, err := h.items.Summary(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, summary)
}

// CreateItem godoc
// @Summary      Create a payment item
// @Tags         payment
// @Accept       json
// @Produce      json
// @Param        request body paymentapp.CreateItemRequest true "Payment item"
// @Success      201 {object} dto.Response{data=paymentapp.ItemResponse}
// @Failure      400 {object} ErrorResponse
// @Router       /payment/items [post]
func (h *PaymentHandler) CreateItem(c *gin.Context) {
	var req paymentapp.CreateItemRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}

	item, err := h.items.Create(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Created(c, item)
}

// GetItem godoc
// @Summary      Get a payment item
// @Tags         payment
// @Produce      json
// @Param        id path string true "Item ID"
// @Success      200 {object} dto.Response{data=paymentapp.ItemResponse}
// @Failure      404 {object} ErrorResponse
// @Router       /payment/items/{id} [get]
func (h *PaymentHandler) GetItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}

	item, err := h.items.Get(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, item)
}

// UpdateItem godoc
// @Summary      Update a payment item
// @Description  Partial update. Explicit null clears nullable fields. Status is recomputed.
// @Tags         payment
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Item ID"
// @Param        request body paymentapp.UpdateItemRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=paymentapp.ItemResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /payment/items/{id} [patch]
func (h *PaymentHandler) UpdateItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req paymentapp.UpdateItemRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}

	item, err := h.items.Update(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, item)
}

// RecordPayment godoc
// @Summary      Record a payment
// @Description  Adds a payment to the item. The amount may not exceed the remaining amount.
// @Tags         payment
// @Accept       json
// @Produce      json
// @Param        id      path string                          true "Item ID"
// @Param        request body paymentapp.RecordPaymentRequest true "Payment"
// @Success      201 {object} dto.Response{data=paymentapp.RecordPaymentResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /payment/items/{id}/payments [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req paymentapp.RecordPaymentRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}

	result, err := h.items.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Created(c, result)
}

// ListPayments godoc
// @Summary      List payments of an item
// @Tags         payment
// @Produce      json
// @Param        id path string true "Item ID"
// @Success      200 {object} dto.Response{data=[]paymentapp.RecordResponse}
// @Router       /payment/items/{id}/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}

	records, err := h.items.ListPayments(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, records)
}

// Restore godoc
// @Summary      Restore a soft-deleted item
// @Tags         payment
// @Produce      json
// @Param        id path string true "Item ID"
// @Success      200 {object} dto.Response{data=paymentapp.ItemResponse}
// @Router       /payment/items/{id}/restore [post]
func (h *PaymentHandler) Restore(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}

	item, err := h.items.Restore(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, item)
}

// SoftDelete moves an item to the trash
// @Router /payment/items/{id} [delete]
func (h *PaymentHandler) SoftDelete(c *gin.Context) {
	h.deleteByID(c, h.items.SoftDelete)
}

// PermanentDelete removes an item and its records
// @Router /payment/items/{id}/permanent [delete]
func (h *PaymentHandler) PermanentDelete(c *gin.Context) {
	h.deleteByID(c, h.items.PermanentDelete)
}

// DeleteRecord reverses a payment
// @Router /payment/records/{id} [delete]
func (h *PaymentHandler) DeleteRecord(c *gin.Context) {
	h.deleteByID(c, h.items.DeletePaymentRecord)
}
