// Package payment implements the payment item, payment record, category and
// project use cases.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appnotification "github.com/innledger/backend/internal/application/notification"
	"github.com/innledger/backend/internal/domain/notification"
	"github.com/innledger/backend/internal/domain/payment"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/telemetry"
)

// refTypeItem tags notifications that point at a payment item
const refTypeItem = "payment_item"

// Notifier writes notifications on behalf of the payment use cases
type Notifier interface {
	Notify(ctx context.Context, typ notification.Type, title, msg string, opts ...appnotification.Option)
	NotifyOnce(ctx context.Context, typ notification.Type, refType string, refID uuid.UUID, title, msg string) (bool, error)
	FormatAmount(amount decimal.Decimal) string
}

// ItemService handles payment items and the payments recorded against them
type ItemService struct {
	itemRepo     payment.ItemRepository
	recordRepo   payment.RecordRepository
	categoryRepo payment.CategoryRepository
	projectRepo  payment.ProjectRepository
	transactor   shared.Transactor
	notifier     Notifier
	metrics      *telemetry.LedgerMetrics
	logger       *zap.Logger
}

// ItemServiceDeps groups the collaborators of ItemService
type ItemServiceDeps struct {
	ItemRepo     payment.ItemRepository
	RecordRepo   payment.RecordRepository
	CategoryRepo payment.CategoryRepository
	ProjectRepo  payment.ProjectRepository
	Transactor   shared.Transactor
	Notifier     Notifier
	Metrics      *telemetry.LedgerMetrics
	Logger       *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(deps ItemServiceDeps) *ItemService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &ItemService{
		itemRepo:     deps.ItemRepo,
		recordRepo:   deps.RecordRepo,
		categoryRepo: deps.CategoryRepo,
		projectRepo:  deps.ProjectRepo,
		transactor:   deps.Transactor,
		notifier:     deps.Notifier,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
	}
}

// List returns items matching the query
func (s *ItemService) List(ctx context.Context, q ListItemsQuery) (*ItemList, error) {
	filter := payment.ItemFilter{
		Filter: shared.Filter{
			Page:     q.Page,
			PageSize: q.Limit,
			OrderBy:  q.OrderBy,
			OrderDir: q.OrderDir,
			Search:   q.Search,
		},
		Status:     payment.ItemStatus(q.Status),
		ItemType:   payment.ItemType(q.ItemType),
		Deleted:    q.Deleted,
		IncludeAll: q.IncludeAll,
		Today:      shared.Today(ctx),
	}
	filter.Normalize()

	if q.ProjectID != "" {
		id, err := uuid.Parse(q.ProjectID)
		if err != nil {
			return nil, shared.NewInvalidInputError("invalid projectId")
		}
		filter.ProjectID = &id
	}
	if q.CategoryID != "" {
		id, err := uuid.Parse(q.CategoryID)
		if err != nil {
			return nil, shared.NewInvalidInputError("invalid categoryId")
		}
		filter.CategoryID = &id
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, shared.NewInvalidInputError("invalid status %q", q.Status)
	}
	if filter.ItemType != "" && !filter.ItemType.IsValid() {
		return nil, shared.NewInvalidInputError("invalid itemType %q", q.ItemType)
	}

	items, total, err := s.itemRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := &ItemList{Items: make([]ItemResponse, 0, len(items)), Total: total}
	if !filter.IncludeAll {
		out.Page = filter.Page
		out.Limit = filter.PageSize
	}
	for i := range items {
		out.Items = append(out.Items, ToItemResponse(&items[i], filter.Today))
	}
	return out, nil
}

// Get returns one item
func (s *ItemService) Get(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item, shared.Today(ctx))
	return &resp, nil
}

// Create creates a pending item. Referenced category and project must exist.
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	if err := s.checkReferences(ctx, req.CategoryID, req.ProjectID); err != nil {
		return nil, err
	}

	params := payment.NewItemParams{
		ItemName:         req.ItemName,
		Description:      req.Description,
		ProjectID:        req.ProjectID,
		CategoryID:       req.CategoryID,
		ItemType:         payment.ItemType(req.ItemType),
		TotalAmount:      req.TotalAmount,
		InstallmentNo:    req.InstallmentNo,
		InstallmentTotal: req.InstallmentTotal,
		Notes:            req.Notes,
	}
	if req.DueDate != "" {
		due, err := shared.ParseDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		params.DueDate = &due
	}
	if req.RecurringInterval != "" {
		interval := payment.RecurringInterval(req.RecurringInterval)
		params.RecurringInterval = &interval
	}

	item, err := payment.NewPaymentItem(params)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Payment item created",
		zap.String("item_id", item.ID.String()),
		zap.String("total_amount", item.TotalAmount.String()),
	)
	resp := ToItemResponse(item, shared.Today(ctx))
	return &resp, nil
}

// Update applies a partial update
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := payment.ItemPatch{
		ItemName:    req.ItemName,
		Description: req.Description,
		TotalAmount: req.TotalAmount,
		Notes:       req.Notes,
	}
	if req.ItemType != nil {
		t := payment.ItemType(*req.ItemType)
		patch.ItemType = &t
	}
	if req.ProjectID.Set {
		patch.ProjectID = &req.ProjectID.Value
	}
	if req.CategoryID.Set {
		patch.CategoryID = &req.CategoryID.Value
	}
	if req.DueDate.Set {
		var due *time.Time
		if req.DueDate.Value != nil && *req.DueDate.Value != "" {
			d, err := shared.ParseDate(*req.DueDate.Value)
			if err != nil {
				return nil, err
			}
			due = &d
		}
		patch.DueDate = &due
	}
	if req.InstallmentNo.Set {
		patch.InstallmentNo = &req.InstallmentNo.Value
	}
	if req.InstallmentTotal.Set {
		patch.InstallmentTotal = &req.InstallmentTotal.Value
	}
	if req.RecurringInterval.Set {
		var interval *payment.RecurringInterval
		if req.RecurringInterval.Value != nil && *req.RecurringInterval.Value != "" {
			v := payment.RecurringInterval(*req.RecurringInterval.Value)
			interval = &v
		}
		patch.RecurringInterval = &interval
	}

	if err := s.checkReferences(ctx, req.CategoryID.Value, req.ProjectID.Value); err != nil {
		return nil, err
	}
	if err := item.ApplyPatch(patch); err != nil {
		return nil, err
	}
	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}

	resp := ToItemResponse(item, shared.Today(ctx))
	return &resp, nil
}

// RecordPayment applies a payment to an item. The record and the item are
// written in one transaction guarded by the item's version.
func (s *ItemService) RecordPayment(ctx context.Context, id uuid.UUID, req RecordPaymentRequest) (*RecordPaymentResponse, error) {
	paidAt := shared.Today(ctx)
	if req.PaidAt != "" {
		d, err := shared.ParseDate(req.PaidAt)
		if err != nil {
			return nil, err
		}
		paidAt = d
	}

	var (
		item   *payment.PaymentItem
		record *payment.PaymentRecord
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		item, err = s.itemRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		record, err = item.RecordPayment(req.Amount, paidAt, payment.Method(req.Method), req.Note)
		if err != nil {
			return err
		}
		if err := s.recordRepo.Create(txCtx, record); err != nil {
			return err
		}
		return s.itemRepo.SaveWithLock(txCtx, item)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PaymentsRecorded.Inc(ctx, telemetry.AttrMethod.String(string(record.Method)))
	}
	s.logger.Info("Payment recorded",
		zap.String("item_id", item.ID.String()),
		zap.String("amount", record.Amount.String()),
		zap.String("status", string(item.Status)),
	)
	if item.Status == payment.ItemStatusPaid && s.notifier != nil {
		s.notifier.Notify(ctx, notification.TypePayment,
			fmt.Sprintf("%s is fully paid", item.ItemName),
			fmt.Sprintf("Total of %s settled.", s.notifier.FormatAmount(item.TotalAmount)),
			appnotification.WithRef(refTypeItem, item.ID),
		)
	}

	return &RecordPaymentResponse{
		Record: ToRecordResponse(record),
		Item:   ToItemResponse(item, shared.Today(ctx)),
	}, nil
}

// ListPayments returns the payments of an item, newest first
func (s *ItemService) ListPayments(ctx context.Context, itemID uuid.UUID) ([]RecordResponse, error) {
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, err
	}
	records, err := s.recordRepo.FindByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]RecordResponse, 0, len(records))
	for i := range records {
		out = append(out, ToRecordResponse(&records[i]))
	}
	return out, nil
}

// DeletePaymentRecord removes a payment and reverses it on its item
func (s *ItemService) DeletePaymentRecord(ctx context.Context, recordID uuid.UUID) error {
	return s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		record, err := s.recordRepo.FindByID(txCtx, recordID)
		if err != nil {
			return err
		}
		item, err := s.itemRepo.FindByID(txCtx, record.ItemID)
		if err != nil {
			return err
		}
		if err := item.ReversePayment(record.Amount); err != nil {
			return err
		}
		if err := s.recordRepo.Delete(txCtx, record.ID); err != nil {
			return err
		}
		return s.itemRepo.SaveWithLock(txCtx, item)
	})
}

// SoftDelete moves an item to the trash
func (s *ItemService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := item.SoftDelete(shared.Now(ctx).UTC()); err != nil {
		return err
	}
	return s.itemRepo.SaveWithLock(ctx, item)
}

// Restore brings an item back from the trash
func (s *ItemService) Restore(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.Restore(); err != nil {
		return nil, err
	}
	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	resp := ToItemResponse(item, shared.Today(ctx))
	return &resp, nil
}

// PermanentDelete removes an item and its payment records in one transaction
func (s *ItemService) PermanentDelete(ctx context.Context, id uuid.UUID) error {
	return s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.itemRepo.FindByID(txCtx, id); err != nil {
			return err
		}
		return s.itemRepo.Delete(txCtx, id)
	})
}

// Summary aggregates the non-deleted items
func (s *ItemService) Summary(ctx context.Context) (*SummaryResponse, error) {
	sum, err := s.itemRepo.Summarize(ctx, shared.Today(ctx))
	if err != nil {
		return nil, err
	}
	resp := &SummaryResponse{
		ItemCount:       sum.ItemCount,
		TotalAmount:     sum.TotalAmount,
		PaidAmount:      sum.PaidAmount,
		RemainingAmount: sum.RemainingAmount,
		OverdueCount:    sum.OverdueCount,
		OverdueAmount:   sum.OverdueAmount,
		ByStatus:        make(map[string]int64, len(sum.ByStatus)),
	}
	for _, st := range []payment.ItemStatus{payment.ItemStatusPending, payment.ItemStatusPartial, payment.ItemStatusPaid, payment.ItemStatusOverdue} {
		resp.ByStatus[string(st)] = sum.ByStatus[st]
	}
	return resp, nil
}

// NotifyOverdue writes one overdue notification per overdue item per day and
// returns how many were written.
func (s *ItemService) NotifyOverdue(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, nil
	}
	today := shared.Today(ctx)
	items, err := s.itemRepo.FindOverdue(ctx, today)
	if err != nil {
		return 0, err
	}

	written := 0
	var errs []error
	for i := range items {
		item := &items[i]
		days := int(today.Sub(*item.DueDate).Hours() / 24)
		created, err := s.notifier.NotifyOnce(ctx, notification.TypeOverdue, refTypeItem, item.ID,
			fmt.Sprintf("%s is overdue", item.ItemName),
			fmt.Sprintf("%s remaining, due %s (%d days ago).",
				s.notifier.FormatAmount(item.RemainingAmount()), item.DueDate.Format(shared.DateLayout), days),
		)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if created {
			written++
		}
	}
	s.logger.Info("Overdue scan finished", zap.Int("overdue", len(items)), zap.Int("notified", written))
	return written, errors.Join(errs...)
}

func (s *ItemService) checkReferences(ctx context.Context, categoryID, projectID *uuid.UUID) error {
	if categoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *categoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewInvalidInputError("category %s does not exist", categoryID)
			}
			return err
		}
	}
	if projectID != nil {
		if _, err := s.projectRepo.FindByID(ctx, *projectID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewInvalidInputError("project %s does not exist", projectID)
			}
			return err
		}
	}
	return nil
}
