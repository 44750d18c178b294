package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	paymentapp "github.com/innledger/backend/internal/application/payment"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPaymentItemService is a mock implementation of PaymentItemService
type MockPaymentItemService struct {
	mock.Mock
}

func (m *MockPaymentItemService) List(ctx context.Context, q paymentapp.ListItemsQuery) (*paymentapp.ItemList, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.ItemList), args.Error(1)
}

func (m *MockPaymentItemService) Get(ctx context.Context, id uuid.UUID) (*paymentapp.ItemResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.ItemResponse), args.Error(1)
}

func (m *MockPaymentItemService) Create(ctx context.Context, req paymentapp.CreateItemRequest) (*paymentapp.ItemResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.ItemResponse), args.Error(1)
}

func (m *MockPaymentItemService) Update(ctx context.Context, id uuid.UUID, req paymentapp.UpdateItemRequest) (*paymentapp.ItemResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.ItemResponse), args.Error(1)
}

func (m *MockPaymentItemService) RecordPayment(ctx context.Context, id uuid.UUID, req paymentapp.RecordPaymentRequest) (*paymentapp.RecordPaymentResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.RecordPaymentResponse), args.Error(1)
}

func (m *MockPaymentItemService) ListPayments(ctx context.Context, itemID uuid.UUID) ([]paymentapp.RecordResponse, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]paymentapp.RecordResponse), args.Error(1)
}

func (m *MockPaymentItemService) DeletePaymentRecord(ctx context.Context, recordID uuid.UUID) error {
	return m.Called(ctx, recordID).Error(0)
}

func (m *MockPaymentItemService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPaymentItemService) Restore(ctx context.Context, id uuid.UUID) (*paymentapp.ItemResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.ItemResponse), args.Error(1)
}

func (m *MockPaymentItemService) PermanentDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPaymentItemService) Summary(ctx context.Context) (*paymentapp.SummaryResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.SummaryResponse), args.Error(1)
}

func setupPaymentRouter() (*MockPaymentItemService, http.Handler) {
	svc := new(MockPaymentItemService)
	h := NewPaymentHandler(svc)

	r := newTestEngine()
	r.GET("/api/payment/items", h.ListItems)
	r.GET("/api/payment/items/summary", h.Summary)
	r.POST("/api/payment/items", h.CreateItem)
	r.GET("/api/payment/items/:id", h.GetItem)
	r.PATCH("/api/payment/items/:id", h.UpdateItem)
	r.POST("/api/payment/items/:id/payments", h.RecordPayment)
	r.GET("/api/payment/items/:id/payments", h.ListPayments)
	r.POST("/api/payment/items/:id/restore", h.Restore)
	r.DELETE("/api/payment/items/:id", h.SoftDelete)
	r.DELETE("/api/payment/items/:id/permanent", h.PermanentDelete)
	r.DELETE("/api/payment/records/:id", h.DeleteRecord)
	return svc, r
}

func sampleItems(n int) []paymentapp.ItemResponse {
	items := make([]paymentapp.ItemResponse, n)
	for i := range items {
		items[i] = paymentapp.ItemResponse{
			ID:          uuid.New(),
			ItemName:    fmt.Sprintf("Item %d", i+1),
			TotalAmount: decimal.NewFromInt(1000),
			Status:      "pending",
		}
	}
	return items
}

func TestPaymentHandler_ListItems(t *testing.T) {
	t.Run("paginated", func(t *testing.T) {
		svc, r := setupPaymentRouter()
		svc.On("List", mock.Anything, mock.MatchedBy(func(q paymentapp.ListItemsQuery) bool {
			return q.Page == 1 && q.Limit == 5 && q.Status == "overdue"
		})).Return(&paymentapp.ItemList{Items: sampleItems(5), Total: 12, Page: 1, Limit: 5}, nil)

		w := doRequest(t, r, http.MethodGet, "/api/payment/items?page=1&limit=5&status=overdue", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decode[[]paymentapp.ItemResponse](t, w)
		assert.True(t, env.Success)
		assert.Len(t, env.Data, 5)
		require.NotNil(t, env.Pagination)
		assert.Equal(t, dto.Pagination{Total: 12, Page: 1, Limit: 5, TotalPages: 3}, *env.Pagination)
	})

	t.Run("includeAll has no pagination block", func(t *testing.T) {
		svc, r := setupPaymentRouter()
		svc.On("List", mock.Anything, mock.MatchedBy(func(q paymentapp.ListItemsQuery) bool {
			return q.IncludeAll
		})).Return(&paymentapp.ItemList{Items: sampleItems(12), Total: 12}, nil)

		w := doRequest(t, r, http.MethodGet, "/api/payment/items?includeAll=true", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decode[[]paymentapp.ItemResponse](t, w)
		assert.Len(t, env.Data, 12)
		assert.Nil(t, env.Pagination)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		svc, r := setupPaymentRouter()

		w := doRequest(t, r, http.MethodGet, "/api/payment/items?status=late", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
		svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("malformed page", func(t *testing.T) {
		_, r := setupPaymentRouter()

		w := doRequest(t, r, http.MethodGet, "/api/payment/items?page=abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, errorCode(t, w))
	})
}

func TestPaymentHandler_CreateItem(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc, r := setupPaymentRouter()
		created := sampleItems(1)[0]
		svc.On("Create", mock.Anything, mock.MatchedBy(func(req paymentapp.CreateItemRequest) bool {
			return req.ItemName == "Linen service" && req.TotalAmount.Equal(decimal.NewFromInt(10000))
		})).Return(&created, nil)

		w := doRequest(t, r, http.MethodPost, "/api/payment/items", map[string]any{
			"itemName":    "Linen service",
			"totalAmount": "10000",
			"dueDate":     "2024-04-30",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decode[paymentapp.ItemResponse](t, w)
		assert.Equal(t, created.ID, env.Data.ID)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, r := setupPaymentRouter()

		w := doRequest(t, r, http.MethodPost, "/api/payment/items", map[string]any{"notes": "x"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode[any](t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
		fields := []string{}
		for _, d := range env.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"itemName", "totalAmount"}, fields)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, r := setupPaymentRouter()

		w := doRequest(t, r, http.MethodPost, "/api/payment/items", map[string]any{
			"itemName":    "Refund",
			"totalAmount": "-5",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})

	t.Run("malformed json", func(t *testing.T) {
		_, r := setupPaymentRouter()

		w := doRequest(t, r, http.MethodPost, "/api/payment/items", `{"itemName":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, errorCode(t, w))
	})

	t.Run("unknown category", func(t *testing.T) {
		svc, r := setupPaymentRouter()
		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, shared.NewInvalidInputError("category %s does not exist", "x"))

		w := doRequest(t, r, http.MethodPost, "/api/payment/items", map[string]any{
			"itemName":    "Linen",
			"totalAmount": "10",
			"categoryId":  uuid.NewString(),
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, errorCode(t, w))
	})
}

func TestPaymentHandler_GetItem(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		_, r := setupPaymentRouter()

		w := doRequest(t, r, http.MethodGet, "/api/payment/items/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, errorCode(t, w))
	})

	t.Run("not found", func(t *testing.T) {
		svc, r := setupPaymentRouter()
		id := uuid.New()
		svc.On("Get", mock.Anything, id).Return(nil, shared.NewNotFoundError("payment item"))

		w := doRequest(t, r, http.MethodGet, "/api/payment/items/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
	})
}

func TestPaymentHandler_UpdateItem(t *testing.T) {
	svc, r := setupPaymentRouter()
	id := uuid.New()
	svc.On("Update", mock.Anything, id, mock.MatchedBy(func(req paymentapp.UpdateItemRequest) bool {
		return req.DueDate.Set && req.DueDate.Value == nil && !req.ProjectID.Set
	})).Return(nil, shared.NewDomainError("TOTAL_BELOW_PAID", "total amount cannot be lower than the paid amount"))

	w := doRequest(t, r, http.MethodPatch, "/api/payment/items/"+id.String(), `{"dueDate":null}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode[any](t, w)
	assert.Equal(t, "ERR_TOTAL_BELOW_PAID", env.Error.Code)
	assert.Equal(t, "total amount cannot be lower than the paid amount", env.Error.Message)
}

func TestPaymentHandler_RecordPayment(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"exceeds remaining", shared.NewDomainError("EXCEEDS_REMAINING", "amount 6000.00 exceeds remaining 5000.00"), http.StatusBadRequest, "ERR_EXCEEDS_REMAINING"},
		{"lost race", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"missing item", shared.NewNotFoundError("payment item"), http.StatusNotFound, dto.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, r := setupPaymentRouter()
			svc.On("RecordPayment", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			w := doRequest(t, r, http.MethodPost, "/api/payment/items/"+uuid.NewString()+"/payments",
				map[string]any{"amount": "6000", "method": "transfer"})

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}

	t.Run("recorded", func(t *testing.T) {
		svc, r := setupPaymentRouter()
		id := uuid.New()
		item := sampleItems(1)[0]
		item.Status = "partial"
		svc.On("RecordPayment", mock.Anything, id, mock.MatchedBy(func(req paymentapp.RecordPaymentRequest) bool {
			return req.Amount.Equal(decimal.NewFromInt(3000)) && req.PaidAt == "2024-03-01"
		})).Return(&paymentapp.RecordPaymentResponse{
			Record: paymentapp.RecordResponse{ID: uuid.New(), ItemID: id, Amount: decimal.NewFromInt(3000)},
			Item:   item,
		}, nil)

		w := doRequest(t, r, http.MethodPost, "/api/payment/items/"+id.String()+"/payments",
			map[string]any{"amount": "3000", "paidAt": "2024-03-01"})

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decode[paymentapp.RecordPaymentResponse](t, w)
		assert.Equal(t, "partial", env.Data.Item.Status)
	})

	t.Run("bad paidAt", func(t *testing.T) {
		_, r := setupPaymentRouter()

		w := doRequest(t, r, http.MethodPost, "/api/payment/items/"+uuid.NewString()+"/payments",
			map[string]any{"amount": "10", "paidAt": "03/01/2024"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})
}

func TestPaymentHandler_Deletes(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		method string
	}{
		{"soft", "/api/payment/items/%s", "SoftDelete"},
		{"permanent", "/api/payment/items/%s/permanent", "PermanentDelete"},
		{"record", "/api/payment/records/%s", "DeletePaymentRecord"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, r := setupPaymentRouter()
			id := uuid.New()
			svc.On(tt.method, mock.Anything, id).Return(nil)

			w := doRequest(t, r, http.MethodDelete, fmt.Sprintf(tt.path, id), nil)

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Empty(t, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestPaymentHandler_Summary(t *testing.T) {
	svc, r := setupPaymentRouter()
	svc.On("Summary", mock.Anything).Return(&paymentapp.SummaryResponse{
		ItemCount:    3,
		OverdueCount: 1,
		ByStatus:     map[string]int64{"pending": 2, "paid": 1},
	}, nil)

	w := doRequest(t, r, http.MethodGet, "/api/payment/items/summary", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode[paymentapp.SummaryResponse](t, w)
	assert.Equal(t, int64(3), env.Data.ItemCount)
	assert.Equal(t, int64(2), env.Data.ByStatus["pending"])
}
