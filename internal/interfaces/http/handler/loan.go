package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	loanapp "github.com/innledger/backend/internal/application/loan"
)

// LoanService manages loan and investment records
type LoanService interface {
	List(ctx context.Context, q loanapp.ListQuery) ([]loanapp.LoanResponse, error)
	Create(ctx context.Context, req loanapp.CreateLoanRequest) (*loanapp.LoanResponse, error)
	Update(ctx context.Context, id uuid.UUID, req loanapp.UpdateLoanRequest) (*loanapp.LoanResponse, error)
	RecordRepayment(ctx context.Context, id uuid.UUID, req loanapp.RepaymentRequest) (*loanapp.LoanResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LoanHandler handles loan endpoints
type LoanHandler struct {
	BaseHandler
	loans LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loans LoanService) *LoanHandler {
	return &LoanHandler{loans: loans}
}

// List godoc
// @Summary      List loans and investments
// @Tags         loans
// @Produce      json
// @Param        recordType query string false "Record type" Enums(loan, investment)
// @Param        status     query string false "Status" Enums(active, settled)
// @Success      200 {object} dto.Response{data=[]loanapp.LoanResponse}
// @Router       /loans [get]
func (h *LoanHandler) List(c *gin.Context) {
	var q loanapp.ListQuery
	if err := bindQuery(c, &q); err != nil {
		h.Fail(c, err)
		return
	}
	list, err := h.loans.List(c.Request.Context(), q)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, list)
}

// Create godoc
// @Summary      Create a loan or investment
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        request body loanapp.CreateLoanRequest true "Record"
// @Success      201 {object} dto.Response{data=loanapp.LoanResponse}
// @Failure      400 {object} ErrorResponse
// @Router       /loans [post]
func (h *LoanHandler) Create(c *gin.Context) {
	var req loanapp.CreateLoanRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	l, err := h.loans.Create(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Created(c, l)
}

// Update partially updates a record
// @Router /loans/{id} [patch]
func (h *LoanHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req loanapp.UpdateLoanRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	l, err := h.loans.Update(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Success(c, l)
}

// RecordRepayment godoc
// @Summary      Record a repayment
// @Description  The amount may not exceed the outstanding principal. The record settles once fully repaid.
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Record ID"
// @Param        request body loanapp.RepaymentRequest true "Repayment"
// @Success      201 {object} dto.Response{data=loanapp.LoanResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /loans/{id}/repayments [post]
func (h *LoanHandler) RecordRepayment(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	var req loanapp.RepaymentRequest
	if err := bindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}
	l, err := h.loans.RecordRepayment(c.Request.Context(), id, req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Created(c, l)
}

// Delete removes a record
// @Router /loans/{id} [delete]
func (h *LoanHandler) Delete(c *gin.Context) {
	h.deleteByID(c, h.loans.Delete)
}
