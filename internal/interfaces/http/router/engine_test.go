package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/innledger/backend/internal/interfaces/http/handler"
	"github.com/innledger/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// testHandlers wires handlers without services; only routes that fail
// before reaching a service may be served.
func testHandlers(ping error) Handlers {
	return Handlers{
		System:       handler.NewSystemHandler(pingFunc(func(context.Context) error { return ping })),
		Payment:      handler.NewPaymentHandler(nil),
		Catalog:      handler.NewCatalogHandler(nil),
		Revenue:      handler.NewRevenueHandler(nil),
		Assistant:    handler.NewAssistantHandler(nil, nil),
		Household:    handler.NewHouseholdHandler(nil),
		HR:           handler.NewHRHandler(nil),
		Loan:         handler.NewLoanHandler(nil),
		Notification: handler.NewNotificationHandler(nil),
		Inbox:        handler.NewInboxHandler(nil),
	}
}

func TestNewEngine_Routes(t *testing.T) {
	engine := NewEngine(EngineConfig{ServiceName: "test"}, testHandlers(nil), zap.NewNop())

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		"GET /health",
		"GET /api/system/info",
		"GET /api/payment/items",
		"GET /api/payment/items/summary",
		"POST /api/payment/items",
		"GET /api/payment/items/:id",
		"PATCH /api/payment/items/:id",
		"POST /api/payment/items/:id/payments",
		"GET /api/payment/items/:id/payments",
		"POST /api/payment/items/:id/restore",
		"DELETE /api/payment/items/:id",
		"DELETE /api/payment/items/:id/permanent",
		"DELETE /api/payment/records/:id",
		"GET /api/categories",
		"POST /api/categories",
		"PATCH /api/categories/:id",
		"DELETE /api/categories/:id",
		"GET /api/projects",
		"POST /api/projects",
		"PATCH /api/projects/:id",
		"DELETE /api/projects/:id",
		"GET /api/pms-bridge/compare",
		"POST /api/pms-bridge/sync",
		"POST /api/pm-bridge/sync",
		"GET /api/household/budgets",
		"GET /api/household/budgets/summary",
		"POST /api/household/budgets",
		"PATCH /api/household/budgets/:id",
		"DELETE /api/household/budgets/:id",
		"GET /api/hr/costs",
		"GET /api/hr/costs/summary",
		"POST /api/hr/costs",
		"PATCH /api/hr/costs/:id",
		"DELETE /api/hr/costs/:id",
		"GET /api/loans",
		"POST /api/loans",
		"PATCH /api/loans/:id",
		"DELETE /api/loans/:id",
		"POST /api/loans/:id/repayments",
		"GET /api/notifications",
		"GET /api/notifications/unread-count",
		"POST /api/notifications/read-all",
		"PATCH /api/notifications/:id/read",
		"DELETE /api/notifications/:id",
		"GET /api/inbox",
		"POST /api/inbox",
		"PATCH /api/inbox/:id",
		"DELETE /api/inbox/:id",
		"POST /api/inbox/:id/process",
		"POST /api/inbox/:id/archive",
		"POST /api/inbox/:id/link",
		"POST /api/ai/chat/stream",
		"GET /api/ai/settings",
		"PUT /api/ai/settings",
	}
	for _, route := range want {
		assert.True(t, registered[route], "missing route %s", route)
	}
	assert.Len(t, registered, len(want))
}

func TestNewEngine_Middleware(t *testing.T) {
	engine := NewEngine(EngineConfig{
		ServiceName: "test",
		MaxBodySize: 64,
		CORS: middleware.CORSConfig{
			AllowOrigins: []string{"https://app.example.com"},
			AllowMethods: []string{"GET", "POST"},
		},
	}, testHandlers(nil), zap.NewNop())

	t.Run("health", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/health")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("error envelope carries the request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/payment/items/nope", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body struct {
			Error struct {
				Code      string `json:"code"`
				RequestID string `json:"requestId"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ERR_BAD_REQUEST", body.Error.Code)
		assert.Equal(t, "req-42", body.Error.RequestID)
	})

	t.Run("oversized body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/loans", strings.NewReader(`{"counterparty":"`+strings.Repeat("x", 200)+`"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/loans", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestNewEngine_HealthDegraded(t *testing.T) {
	engine := NewEngine(EngineConfig{}, testHandlers(errors.New("dial tcp: refused")), zap.NewNop())

	w := serve(engine, http.MethodGet, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
