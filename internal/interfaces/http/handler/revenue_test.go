package handler

import (
	"context"
	"net/http"
	"testing"

	revenueapp "github.com/innledger/backend/internal/application/revenue"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRevenueService is a mock implementation of RevenueService
type MockRevenueService struct {
	mock.Mock
}

func (m *MockRevenueService) Compare(ctx context.Context, q revenueapp.CompareQuery) (*revenueapp.CompareResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenueapp.CompareResponse), args.Error(1)
}

func (m *MockRevenueService) SyncPms(ctx context.Context, req revenueapp.SyncPmsRequest) (*revenueapp.SyncPmsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenueapp.SyncPmsResponse), args.Error(1)
}

func (m *MockRevenueService) SyncPm(ctx context.Context, req revenueapp.SyncPmRequest) (*revenueapp.SyncPmResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenueapp.SyncPmResponse), args.Error(1)
}

func setupRevenueRouter() (*MockRevenueService, http.Handler) {
	svc := new(MockRevenueService)
	h := NewRevenueHandler(svc)

	r := newTestEngine()
	r.GET("/api/pms-bridge/compare", h.Compare)
	r.POST("/api/pms-bridge/sync", h.SyncPms)
	r.POST("/api/pm-bridge/sync", h.SyncPm)
	return svc, r
}

func TestRevenueHandler_Compare(t *testing.T) {
	t.Run("missing range", func(t *testing.T) {
		svc, r := setupRevenueRouter()

		w := doRequest(t, r, http.MethodGet, "/api/pms-bridge/compare?startMonth=2024-01", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode[any](t, w)
		assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
		assert.Equal(t, "endMonth", env.Error.Details[0].Field)
		svc.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything)
	})

	t.Run("malformed month", func(t *testing.T) {
		_, r := setupRevenueRouter()

		w := doRequest(t, r, http.MethodGet, "/api/pms-bridge/compare?startMonth=2024-1&endMonth=2024-03", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode[any](t, w)
		assert.Equal(t, "Must be a month in YYYY-MM format", env.Error.Details[0].Message)
	})

	t.Run("inverted range", func(t *testing.T) {
		svc, r := setupRevenueRouter()
		svc.On("Compare", mock.Anything, mock.Anything).
			Return(nil, shared.NewInvalidInputError("startMonth %s is after endMonth %s", "2024-03", "2024-01"))

		w := doRequest(t, r, http.MethodGet, "/api/pms-bridge/compare?startMonth=2024-03&endMonth=2024-01", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, errorCode(t, w))
	})

	t.Run("ok", func(t *testing.T) {
		svc, r := setupRevenueRouter()
		q := revenueapp.CompareQuery{StartMonth: "2024-01", EndMonth: "2024-02"}
		svc.On("Compare", mock.Anything, q).Return(&revenueapp.CompareResponse{
			Comparison: []revenueapp.MonthlyRowResponse{
				{Month: "2024-01", PmsTotal: decimal.NewFromInt(1000), PmTotal: decimal.NewFromInt(1000), Status: "match"},
				{Month: "2024-02", PmsTotal: decimal.NewFromInt(500), Status: "insufficient_pm"},
			},
			Summary: revenueapp.CompareSummaryResponse{Months: 2},
		}, nil)

		w := doRequest(t, r, http.MethodGet, "/api/pms-bridge/compare?startMonth=2024-01&endMonth=2024-02", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decode[revenueapp.CompareResponse](t, w)
		assert.Len(t, env.Data.Comparison, 2)
		assert.Equal(t, "insufficient_pm", env.Data.Comparison[1].Status)
	})
}

func TestRevenueHandler_SyncPms(t *testing.T) {
	t.Run("upstream failure", func(t *testing.T) {
		svc, r := setupRevenueRouter()
		svc.On("SyncPms", mock.Anything, mock.Anything).
			Return(nil, shared.NewUpstreamError("pms", "login failed"))

		w := doRequest(t, r, http.MethodPost, "/api/pms-bridge/sync",
			map[string]any{"startMonth": "2024-01", "endMonth": "2024-03"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, dto.ErrCodeUpstream, errorCode(t, w))
	})

	t.Run("partial", func(t *testing.T) {
		svc, r := setupRevenueRouter()
		svc.On("SyncPms", mock.Anything, revenueapp.SyncPmsRequest{StartMonth: "2024-01", EndMonth: "2024-03"}).
			Return(&revenueapp.SyncPmsResponse{
				RecordsWritten: 8,
				MonthsSynced:   2,
				MonthsFailed:   1,
				Failures:       []revenueapp.SyncFailure{{Month: "2024-02", Message: "timeout"}},
				Status:         revenueapp.SyncStatusPartial,
			}, nil)

		w := doRequest(t, r, http.MethodPost, "/api/pms-bridge/sync",
			map[string]any{"startMonth": "2024-01", "endMonth": "2024-03"})

		assert.Equal(t, http.StatusOK, w.Code)
		env := decode[revenueapp.SyncPmsResponse](t, w)
		assert.Equal(t, revenueapp.SyncStatusPartial, env.Data.Status)
		assert.Equal(t, "2024-02", env.Data.Failures[0].Month)
	})
}

func TestRevenueHandler_SyncPm(t *testing.T) {
	t.Run("missing dates", func(t *testing.T) {
		_, r := setupRevenueRouter()

		w := doRequest(t, r, http.MethodPost, "/api/pm-bridge/sync", map[string]any{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode[any](t, w)
		assert.Len(t, env.Error.Details, 2)
	})

	t.Run("ok", func(t *testing.T) {
		svc, r := setupRevenueRouter()
		svc.On("SyncPm", mock.Anything, revenueapp.SyncPmRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"}).
			Return(&revenueapp.SyncPmResponse{Synced: 40, Skipped: 3}, nil)

		w := doRequest(t, r, http.MethodPost, "/api/pm-bridge/sync",
			map[string]any{"startDate": "2024-03-01", "endDate": "2024-03-31"})

		assert.Equal(t, http.StatusOK, w.Code)
		env := decode[revenueapp.SyncPmResponse](t, w)
		assert.Equal(t, int64(40), env.Data.Synced)
		assert.Equal(t, int64(3), env.Data.Skipped)
	})
}
