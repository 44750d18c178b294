// Package revenue implements the revenue comparison and the PMS and PM syncs.
package revenue

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	appnotification "github.com/innledger/backend/internal/application/notification"
	"github.com/innledger/backend/internal/domain/notification"
	"github.com/innledger/backend/internal/domain/revenue"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/telemetry"
)

// maxCompareMonths bounds a comparison request
const maxCompareMonths = 120

// Notifier writes notifications on behalf of the sync use cases
type Notifier interface {
	Notify(ctx context.Context, typ notification.Type, title, msg string, opts ...appnotification.Option)
	FormatAmount(amount decimal.Decimal) string
}

// Limits bound the size of sync requests
type Limits struct {
	MaxSyncMonths int
	MaxSyncDays   int
}

// Service handles revenue comparison and sync
type Service struct {
	pmsRepo   revenue.PmsRepository
	pmRepo    revenue.PmRepository
	pmsSource revenue.PmsSource
	pmSource  revenue.PmSource
	notifier  Notifier
	policy    revenue.Policy
	limits    Limits
	metrics   *telemetry.LedgerMetrics
	logger    *zap.Logger
}

// ServiceDeps groups the collaborators of Service
type ServiceDeps struct {
	PmsRepo   revenue.PmsRepository
	PmRepo    revenue.PmRepository
	PmsSource revenue.PmsSource
	PmSource  revenue.PmSource
	Notifier  Notifier
	Policy    revenue.Policy
	Limits    Limits
	Metrics   *telemetry.LedgerMetrics
	Logger    *zap.Logger
}

// NewService creates a new revenue service
func NewService(deps ServiceDeps) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Policy.MatchThreshold.IsZero() {
		deps.Policy = revenue.DefaultPolicy()
	}
	return &Service{
		pmsRepo:   deps.PmsRepo,
		pmRepo:    deps.PmRepo,
		pmsSource: deps.PmsSource,
		pmSource:  deps.PmSource,
		notifier:  deps.Notifier,
		policy:    deps.Policy,
		limits:    deps.Limits,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
	}
}

// Compare compares stored PMS and PM revenue month by month. Both sides are
// loaded concurrently.
func (s *Service) Compare(ctx context.Context, q CompareQuery) (*CompareResponse, error) {
	start, end, months, err := parseMonthRange(q.StartMonth, q.EndMonth, maxCompareMonths)
	if err != nil {
		return nil, err
	}

	var (
		pmsRows []revenue.PmsRecord
		pmRows  []revenue.PmRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pmsRows, err = s.pmsRepo.FindByMonthRange(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		pmRows, err = s.pmRepo.FindByDateRange(gctx, start.FirstDay(), end.LastDay())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	comparison := revenue.Compare(months, pmsRows, pmRows, s.policy)
	if s.metrics != nil {
		for _, row := range comparison.Rows {
			if row.Status != revenue.StatusMatch {
				s.metrics.CompareMismatches.Inc(ctx, telemetry.AttrStatus.String(string(row.Status)))
			}
		}
	}

	resp := ToCompareResponse(comparison)
	return &resp, nil
}

// SyncPms pulls each month from the invoicing system and upserts it. Months
// fail independently; the call fails only when every month failed.
func (s *Service) SyncPms(ctx context.Context, req SyncPmsRequest) (*SyncPmsResponse, error) {
	_, _, months, err := parseMonthRange(req.StartMonth, req.EndMonth, s.limits.MaxSyncMonths)
	if err != nil {
		return nil, err
	}

	resp := &SyncPmsResponse{Failures: []SyncFailure{}}
	var firstErr error
	for _, month := range months {
		written, err := s.syncPmsMonth(ctx, month)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if firstErr == nil {
				firstErr = err
			}
			resp.Failures = append(resp.Failures, SyncFailure{Month: month.String(), Message: failureMessage(err)})
			s.logger.Warn("PMS month sync failed", zap.String("month", month.String()), zap.Error(err))
			continue
		}
		resp.RecordsWritten += written
		resp.MonthsSynced++
	}
	resp.MonthsFailed = len(resp.Failures)

	if s.metrics != nil && resp.RecordsWritten > 0 {
		s.metrics.SyncRecords.Add(ctx, resp.RecordsWritten, telemetry.AttrSource.String("pms"))
	}

	if resp.MonthsSynced == 0 {
		s.notify(ctx, "PMS sync failed",
			fmt.Sprintf("%s to %s: %s", req.StartMonth, req.EndMonth, firstErr.Error()))
		return nil, asUpstream(firstErr)
	}

	resp.Status = SyncStatusSuccess
	resp.Message = fmt.Sprintf("Synced %d records across %d months", resp.RecordsWritten, resp.MonthsSynced)
	if resp.MonthsFailed > 0 {
		resp.Status = SyncStatusPartial
		resp.Message = fmt.Sprintf("Synced %d records across %d months, %d months failed",
			resp.RecordsWritten, resp.MonthsSynced, resp.MonthsFailed)
	}
	s.logger.Info("PMS sync finished",
		zap.String("start", req.StartMonth),
		zap.String("end", req.EndMonth),
		zap.Int64("records", resp.RecordsWritten),
		zap.Int("failed_months", resp.MonthsFailed),
	)
	s.notify(ctx, "PMS sync completed", fmt.Sprintf("%s to %s: %s", req.StartMonth, req.EndMonth, resp.Message))
	return resp, nil
}

func (s *Service) syncPmsMonth(ctx context.Context, month shared.YearMonth) (int64, error) {
	records, err := s.pmsSource.FetchMonthly(ctx, month)
	if err != nil {
		return 0, err
	}
	written, err := s.pmsRepo.Upsert(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("store PMS revenue for %s: %w", month, err)
	}
	return written, nil
}

// SyncPm pulls transactions from the hotel-management system and stores the
// ones not seen before. Records without an id are skipped.
func (s *Service) SyncPm(ctx context.Context, req SyncPmRequest) (*SyncPmResponse, error) {
	start, err := shared.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := shared.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if _, err := shared.DateRange(start, end, s.limits.MaxSyncDays); err != nil {
		return nil, err
	}

	records, err := s.pmSource.FetchRange(ctx, start, end)
	if err != nil {
		return nil, asUpstream(err)
	}

	withID := make([]revenue.PmRecord, 0, len(records))
	for _, r := range records {
		if r.RecordID != "" {
			withID = append(withID, r)
		}
	}
	inserted, err := s.pmRepo.InsertNew(ctx, withID)
	if err != nil {
		return nil, fmt.Errorf("store PM revenue: %w", err)
	}

	resp := &SyncPmResponse{Synced: inserted, Skipped: int64(len(records)) - inserted}
	if s.metrics != nil && inserted > 0 {
		s.metrics.SyncRecords.Add(ctx, inserted, telemetry.AttrSource.String("pm"))
	}
	s.logger.Info("PM sync finished",
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate),
		zap.Int64("synced", resp.Synced),
		zap.Int64("skipped", resp.Skipped),
	)
	s.notify(ctx, "PM sync completed",
		fmt.Sprintf("%s to %s: %d new transactions, %d skipped", req.StartDate, req.EndDate, resp.Synced, resp.Skipped))
	return resp, nil
}

// DailySync syncs the previous and current month from PMS and the last
// lookbackDays days from PM. Both syncs run even if the first one fails.
func (s *Service) DailySync(ctx context.Context, lookbackDays int) error {
	today := shared.Today(ctx)
	current := shared.YearMonthOf(today)

	var errs []error
	if _, err := s.SyncPms(ctx, SyncPmsRequest{
		StartMonth: current.Prev().String(),
		EndMonth:   current.String(),
	}); err != nil {
		errs = append(errs, fmt.Errorf("pms: %w", err))
	}

	if lookbackDays < 1 {
		lookbackDays = 7
	}
	if _, err := s.SyncPm(ctx, SyncPmRequest{
		StartDate: today.AddDate(0, 0, -(lookbackDays - 1)).Format(shared.DateLayout),
		EndDate:   today.Format(shared.DateLayout),
	}); err != nil {
		errs = append(errs, fmt.Errorf("pm: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Service) notify(ctx context.Context, title, msg string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, notification.TypeRevenue, title, msg)
}

func parseMonthRange(startStr, endStr string, maxMonths int) (shared.YearMonth, shared.YearMonth, []shared.YearMonth, error) {
	start, err := shared.ParseYearMonth(startStr)
	if err != nil {
		return shared.YearMonth{}, shared.YearMonth{}, nil, err
	}
	end, err := shared.ParseYearMonth(endStr)
	if err != nil {
		return shared.YearMonth{}, shared.YearMonth{}, nil, err
	}
	months, err := shared.MonthRange(start, end, maxMonths)
	if err != nil {
		return shared.YearMonth{}, shared.YearMonth{}, nil, err
	}
	return start, end, months, nil
}

// asUpstream keeps upstream domain errors as they are and hides anything else
// behind a generic upstream error.
// failureMessage is the client-facing text for a failed month. Domain errors
// carry a safe message; other errors, such as storage failures, stay in the logs.
func failureMessage(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "month sync failed"
}

func asUpstream(err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return shared.NewUpstreamError("sync", "request failed")
}
