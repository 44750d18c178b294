// Package loan implements the loan and investment record use cases.
package loan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appnotification "github.com/innledger/backend/internal/application/notification"
	"github.com/innledger/backend/internal/domain/loan"
	"github.com/innledger/backend/internal/domain/notification"
	"github.com/innledger/backend/internal/domain/shared"
)

// Notifier writes notifications for settled records
type Notifier interface {
	Notify(ctx context.Context, typ notification.Type, title, msg string, opts ...appnotification.Option)
	FormatAmount(amount decimal.Decimal) string
}

// Service handles loan records
type Service struct {
	repo     loan.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a new loan service. notifier may be nil.
func NewService(repo loan.Repository, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// List returns records filtered by type and status
func (s *Service) List(ctx context.Context, q ListQuery) ([]LoanResponse, error) {
	records, err := s.repo.FindAll(ctx, loan.Filter{
		RecordType: loan.RecordType(q.RecordType),
		Status:     loan.Status(q.Status),
	})
	if err != nil {
		return nil, err
	}
	out := make([]LoanResponse, 0, len(records))
	for i := range records {
		out = append(out, ToLoanResponse(&records[i]))
	}
	return out, nil
}

// Create adds a new active record
func (s *Service) Create(ctx context.Context, req CreateLoanRequest) (*LoanResponse, error) {
	terms := loan.Terms{
		RecordType:   loan.RecordType(req.RecordType),
		Counterparty: req.Counterparty,
		Principal:    req.Principal,
		InterestRate: req.InterestRate,
		Notes:        req.Notes,
	}
	var err error
	if terms.StartDate, err = shared.ParseDate(req.StartDate); err != nil {
		return nil, err
	}
	if req.MaturityDate != "" {
		if terms.MaturityDate, err = parseOptionalDate(req.MaturityDate); err != nil {
			return nil, err
		}
	}

	record, err := loan.NewRecord(terms)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}
	resp := ToLoanResponse(record)
	return &resp, nil
}

// Update applies a partial update to the terms
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateLoanRequest) (*LoanResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	terms := loan.Terms{
		RecordType:   record.RecordType,
		Counterparty: record.Counterparty,
		Principal:    record.Principal,
		InterestRate: record.InterestRate,
		StartDate:    record.StartDate,
		MaturityDate: record.MaturityDate,
		Notes:        record.Notes,
	}
	if req.RecordType != nil {
		terms.RecordType = loan.RecordType(*req.RecordType)
	}
	if req.Counterparty != nil {
		terms.Counterparty = *req.Counterparty
	}
	if req.Principal != nil {
		terms.Principal = *req.Principal
	}
	if req.InterestRate != nil {
		terms.InterestRate = *req.InterestRate
	}
	if req.StartDate != nil {
		if terms.StartDate, err = shared.ParseDate(*req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.MaturityDate != nil {
		if terms.MaturityDate, err = parseOptionalDate(*req.MaturityDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		terms.Notes = *req.Notes
	}

	if err := record.SetTerms(terms); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	resp := ToLoanResponse(record)
	return &resp, nil
}

// RecordRepayment applies a repayment. Concurrent repayments are rejected by
// the version check.
func (s *Service) RecordRepayment(ctx context.Context, id uuid.UUID, req RepaymentRequest) (*LoanResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := record.RecordRepayment(req.Amount); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Repayment recorded",
		zap.String("loan_id", record.ID.String()),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("status", string(record.Status)),
	)
	if record.Status == loan.StatusSettled && s.notifier != nil {
		s.notifier.Notify(ctx, notification.TypePayment,
			fmt.Sprintf("%s %s settled", record.Counterparty, record.RecordType),
			fmt.Sprintf("Principal of %s fully repaid.", s.notifier.FormatAmount(record.Principal)),
			appnotification.WithRef("loan", record.ID),
		)
	}
	resp := ToLoanResponse(record)
	return &resp, nil
}

// Delete removes a record
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := shared.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
