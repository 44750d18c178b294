package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/innledger/backend/internal/domain/loan"
	"github.com/innledger/backend/internal/domain/shared"
)

// ListQuery filters loan records
type ListQuery struct {
	RecordType string `form:"recordType" binding:"omitempty,oneof=loan investment"`
	Status     string `form:"status" binding:"omitempty,oneof=active settled"`
}

// CreateLoanRequest represents a request to create a loan or investment record
type CreateLoanRequest struct {
	RecordType   string          `json:"recordType" binding:"required,oneof=loan investment"`
	Counterparty string          `json:"counterparty" binding:"required,max=200"`
	Principal    decimal.Decimal `json:"principal" binding:"required,gt=0"`
	InterestRate decimal.Decimal `json:"interestRate"`
	StartDate    string          `json:"startDate" binding:"required,isodate"`
	MaturityDate string          `json:"maturityDate" binding:"omitempty,isodate"`
	Notes        string          `json:"notes" binding:"max=2000"`
}

// UpdateLoanRequest represents a partial update. An empty maturityDate
// clears it.
type UpdateLoanRequest struct {
	RecordType   *string          `json:"recordType" binding:"omitempty,oneof=loan investment"`
	Counterparty *string          `json:"counterparty" binding:"omitempty,min=1,max=200"`
	Principal    *decimal.Decimal `json:"principal"`
	InterestRate *decimal.Decimal `json:"interestRate"`
	StartDate    *string          `json:"startDate" binding:"omitempty,isodate"`
	MaturityDate *string          `json:"maturityDate"`
	Notes        *string          `json:"notes" binding:"omitempty,max=2000"`
}

// RepaymentRequest represents a repayment against a record
type RepaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// LoanResponse represents a loan record in API responses
type LoanResponse struct {
	ID           uuid.UUID       `json:"id"`
	RecordType   string          `json:"recordType"`
	Counterparty string          `json:"counterparty"`
	Principal    decimal.Decimal `json:"principal"`
	InterestRate decimal.Decimal `json:"interestRate"`
	StartDate    string          `json:"startDate"`
	MaturityDate *string         `json:"maturityDate"`
	RepaidAmount decimal.Decimal `json:"repaidAmount"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	Status       string          `json:"status"`
	Notes        string          `json:"notes"`
	Version      int             `json:"version"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ToLoanResponse converts a domain loan record
func ToLoanResponse(r *loan.Record) LoanResponse {
	resp := LoanResponse{
		ID:           r.ID,
		RecordType:   string(r.RecordType),
		Counterparty: r.Counterparty,
		Principal:    r.Principal,
		InterestRate: r.InterestRate,
		StartDate:    r.StartDate.Format(shared.DateLayout),
		RepaidAmount: r.RepaidAmount,
		Outstanding:  r.Outstanding(),
		Status:       string(r.Status),
		Notes:        r.Notes,
		Version:      r.Version,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.MaturityDate != nil {
		d := r.MaturityDate.Format(shared.DateLayout)
		resp.MaturityDate = &d
	}
	return resp
}
