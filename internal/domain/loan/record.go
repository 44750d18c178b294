package loan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RecordType distinguishes borrowed money from money invested
type RecordType string

const (
	RecordTypeLoan       RecordType = "loan"
	RecordTypeInvestment RecordType = "investment"
)

// IsValid checks if the record type is valid
func (t RecordType) IsValid() bool {
	return t == RecordTypeLoan || t == RecordTypeInvestment
}

// Status of a loan record
type Status string

const (
	StatusActive  Status = "active"
	StatusSettled Status = "settled"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusSettled
}

// Record is a loan taken or an investment made.
// Invariant: RepaidAmount <= Principal; Status is settled iff RepaidAmount == Principal.
type Record struct {
	shared.BaseAggregateRoot
	RecordType   RecordType
	Counterparty string
	Principal    decimal.Decimal
	InterestRate decimal.Decimal
	StartDate    time.Time
	MaturityDate *time.Time
	RepaidAmount decimal.Decimal
	Status       Status
	Notes        string
}

// Terms are the editable fields of a record
type Terms struct {
	RecordType   RecordType
	Counterparty string
	Principal    decimal.Decimal
	InterestRate decimal.Decimal
	StartDate    time.Time
	MaturityDate *time.Time
	Notes        string
}

// NewRecord creates an active record
func NewRecord(terms Terms) (*Record, error) {
	r := &Record{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RepaidAmount:      decimal.Zero,
		Status:            StatusActive,
	}
	if err := r.applyTerms(terms); err != nil {
		return nil, err
	}
	return r, nil
}

// SetTerms validates and replaces the editable fields of a stored record and
// bumps its version, so it must be persisted with SaveWithLock
func (r *Record) SetTerms(t Terms) error {
	if err := r.applyTerms(t); err != nil {
		return err
	}
	r.IncrementVersion()
	return nil
}

func (r *Record) applyTerms(t Terms) error {
	if !t.RecordType.IsValid() {
		return shared.NewInvalidInputError("recordType must be loan or investment")
	}
	counterparty := strings.TrimSpace(t.Counterparty)
	if counterparty == "" {
		return shared.NewInvalidInputError("counterparty is required")
	}
	if err := shared.ValidateAmount("Principal", t.Principal); err != nil {
		return err
	}
	if t.Principal.LessThan(r.RepaidAmount) {
		return shared.NewDomainError("EXCEEDS_REMAINING",
			fmt.Sprintf("Principal %s is below the repaid amount %s", t.Principal.StringFixed(2), r.RepaidAmount.StringFixed(2)))
	}
	if t.InterestRate.IsNegative() || t.InterestRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewInvalidInputError("interestRate must be between 0 and 100")
	}
	if t.StartDate.IsZero() {
		return shared.NewInvalidInputError("startDate is required")
	}
	if t.MaturityDate != nil && t.MaturityDate.Before(t.StartDate) {
		return shared.NewInvalidInputError("maturityDate cannot be before startDate")
	}

	r.RecordType = t.RecordType
	r.Counterparty = counterparty
	r.Principal = t.Principal
	r.InterestRate = t.InterestRate
	r.StartDate = t.StartDate
	r.MaturityDate = t.MaturityDate
	r.Notes = t.Notes
	r.recomputeStatus()
	r.Touch()
	return nil
}

// Outstanding returns Principal - RepaidAmount
func (r *Record) Outstanding() decimal.Decimal {
	return r.Principal.Sub(r.RepaidAmount)
}

// RecordRepayment applies a repayment and settles the record when the principal is covered
func (r *Record) RecordRepayment(amount decimal.Decimal) error {
	if r.Status == StatusSettled {
		return shared.NewDomainError("INVALID_STATE", "Record is already settled")
	}
	if err := shared.ValidateAmount("Repayment amount", amount); err != nil {
		return err
	}
	outstanding := r.Outstanding()
	if amount.GreaterThan(outstanding) {
		return shared.NewDomainError("EXCEEDS_REMAINING",
			fmt.Sprintf("Repayment amount %s exceeds outstanding principal %s", amount.StringFixed(2), outstanding.StringFixed(2)))
	}
	r.RepaidAmount = r.RepaidAmount.Add(amount)
	r.recomputeStatus()
	r.IncrementVersion()
	r.Touch()
	return nil
}

func (r *Record) recomputeStatus() {
	if r.RepaidAmount.GreaterThanOrEqual(r.Principal) {
		r.Status = StatusSettled
		return
	}
	r.Status = StatusActive
}

// Filter narrows a loan listing
type Filter struct {
	RecordType RecordType
	Status     Status
}

// Repository persists loan records
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	FindAll(ctx context.Context, filter Filter) ([]Record, error)
	Save(ctx context.Context, record *Record) error
	// SaveWithLock persists record only if the stored version is record.Version-1
	SaveWithLock(ctx context.Context, record *Record) error
	Delete(ctx context.Context, id uuid.UUID) error
}
