package integration

import (
	"net/http"
	"testing"

	notificationapp "github.com/innledger/backend/internal/application/notification"
	paymentapp "github.com/innledger/backend/internal/application/payment"
	"github.com/innledger/backend/internal/infrastructure/persistence"
	"github.com/innledger/backend/internal/interfaces/http/handler"
	"github.com/innledger/backend/internal/interfaces/http/router"
	"github.com/innledger/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newAPI wires the payment, catalog and notification endpoints to the test database
func newAPI(t *testing.T) http.Handler {
	tdb := NewTestDB(t)
	sqlDB, err := tdb.DB.DB()
	require.NoError(t, err)

	itemRepo := persistence.NewGormPaymentItemRepository(tdb.DB)
	categoryRepo := persistence.NewGormCategoryRepository(tdb.DB)
	projectRepo := persistence.NewGormProjectRepository(tdb.DB)
	notifications := notificationapp.NewService(persistence.NewGormNotificationRepository(tdb.DB), zap.NewNop())
	items := paymentapp.NewItemService(paymentapp.ItemServiceDeps{
		ItemRepo:     itemRepo,
		RecordRepo:   persistence.NewGormPaymentRecordRepository(tdb.DB),
		CategoryRepo: categoryRepo,
		ProjectRepo:  projectRepo,
		Transactor:   persistence.NewGormTransactor(tdb.DB),
		Notifier:     notifications,
		Logger:       zap.NewNop(),
	})

	return router.NewEngine(router.EngineConfig{ServiceName: "ledger-test", MaxBodySize: 1 << 20}, router.Handlers{
		System:       handler.NewSystemHandler(sqlDB),
		Payment:      handler.NewPaymentHandler(items),
		Catalog:      handler.NewCatalogHandler(paymentapp.NewCatalogService(categoryRepo, projectRepo, itemRepo)),
		Revenue:      handler.NewRevenueHandler(nil),
		Assistant:    handler.NewAssistantHandler(nil, nil),
		Household:    handler.NewHouseholdHandler(nil),
		HR:           handler.NewHRHandler(nil),
		Loan:         handler.NewLoanHandler(nil),
		Notification: handler.NewNotificationHandler(notifications),
		Inbox:        handler.NewInboxHandler(nil),
	}, zap.NewNop())
}

func TestAPI_Health(t *testing.T) {
	api := newAPI(t)
	w := testutil.Do(t, api, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAPI_PaymentFlow(t *testing.T) {
	api := newAPI(t)

	category := testutil.DataAs[map[string]any](t,
		testutil.Do(t, api, http.MethodPost, "/api/categories", map[string]any{"name": "Utilities"}))
	categoryID, _ := category["id"].(string)
	require.NotEmpty(t, categoryID)

	w := testutil.Do(t, api, http.MethodPost, "/api/payment/items", map[string]any{
		"itemName":    "Electricity",
		"totalAmount": "1500.50",
		"categoryId":  categoryID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := testutil.DataAs[paymentapp.ItemResponse](t, w)
	itemPath := "/api/payment/items/" + item.ID.String()

	t.Run("overpayment is a 400", func(t *testing.T) {
		w := testutil.Do(t, api, http.MethodPost, itemPath+"/payments", map[string]any{"amount": "2000"})
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "ERR_EXCEEDS_REMAINING")
	})

	t.Run("full payment settles the item", func(t *testing.T) {
		w := testutil.Do(t, api, http.MethodPost, itemPath+"/payments", map[string]any{
			"amount": "1500.50", "paidAt": "2024-06-01", "method": "card",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		result := testutil.DataAs[paymentapp.RecordPaymentResponse](t, w)
		assert.Equal(t, "paid", result.Item.Status)
		assert.Equal(t, "2024-06-01", result.Record.PaidAt)

		unread := testutil.DataAs[notificationapp.UnreadCountResponse](t,
			testutil.Do(t, api, http.MethodGet, "/api/notifications/unread-count", nil))
		assert.Equal(t, int64(1), unread.Count)
	})

	t.Run("category in use cannot be deleted", func(t *testing.T) {
		w := testutil.Do(t, api, http.MethodDelete, "/api/categories/"+categoryID, nil)
		assert.GreaterOrEqual(t, w.Code, http.StatusBadRequest, w.Body.String())
		env := testutil.DecodeEnvelope(t, w)
		assert.False(t, env.Success)
	})

	t.Run("list paginates", func(t *testing.T) {
		w := testutil.Do(t, api, http.MethodGet, "/api/payment/items?page=1&limit=10", nil)
		require.Equal(t, http.StatusOK, w.Code)
		env := testutil.DecodeEnvelope(t, w)
		require.NotNil(t, env.Pagination)
		assert.Equal(t, int64(1), env.Pagination.Total)
		assert.Equal(t, 1, env.Pagination.TotalPages)
	})

	t.Run("unknown item is a 404", func(t *testing.T) {
		w := testutil.Do(t, api, http.MethodGet, "/api/payment/items/"+testutil.NewTestUUID("missing").String(), nil)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, "ERR_NOT_FOUND")
	})
}
