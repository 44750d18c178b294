package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T, total string) *PaymentItem {
	t.Helper()
	item, err := NewPaymentItem(NewItemParams{
		ItemName:    "Boiler replacement",
		TotalAmount: decimal.RequireFromString(total),
	})
	require.NoError(t, err)
	return item
}

func TestNewPaymentItem(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		item := newTestItem(t, "10000")
		assert.Equal(t, ItemStatusPending, item.Status)
		assert.Equal(t, ItemTypeSingle, item.ItemType)
		assert.True(t, item.PaidAmount.IsZero())
		assert.Equal(t, 1, item.Version)
	})

	tests := []struct {
		name   string
		params NewItemParams
		code   string
	}{
		{"empty name", NewItemParams{ItemName: "  ", TotalAmount: decimal.NewFromInt(1)}, "INVALID_ITEM_NAME"},
		{"zero amount", NewItemParams{ItemName: "x", TotalAmount: decimal.Zero}, "INVALID_AMOUNT"},
		{"negative amount", NewItemParams{ItemName: "x", TotalAmount: decimal.NewFromInt(-5)}, "INVALID_AMOUNT"},
		{"sub-cent amount", NewItemParams{ItemName: "x", TotalAmount: decimal.RequireFromString("100.005")}, "INVALID_AMOUNT"},
		{"bad type", NewItemParams{ItemName: "x", TotalAmount: decimal.NewFromInt(1), ItemType: "weekly"}, "INVALID_ITEM_TYPE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPaymentItem(tt.params)
			require.Error(t, err)
			assertCode(t, err, tt.code)
		})
	}
}

func TestPaymentItem_RecordPayment(t *testing.T) {
	paidAt := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("partial then paid", func(t *testing.T) {
		item := newTestItem(t, "10000")

		rec, err := item.RecordPayment(decimal.NewFromInt(3000), paidAt, MethodCash, "")
		require.NoError(t, err)
		assert.Equal(t, ItemStatusPartial, item.Status)
		assert.True(t, item.RemainingAmount().Equal(decimal.NewFromInt(7000)))
		assert.Equal(t, item.ID, rec.ItemID)
		assert.Equal(t, 2, item.Version)

		_, err = item.RecordPayment(decimal.NewFromInt(7000), paidAt, "", "")
		require.NoError(t, err)
		assert.Equal(t, ItemStatusPaid, item.Status)
		assert.True(t, item.PaidAmount.Equal(item.TotalAmount))
	})

	t.Run("overpayment leaves item unchanged", func(t *testing.T) {
		item := newTestItem(t, "5000")
		_, err := item.RecordPayment(decimal.NewFromInt(6000), paidAt, MethodCash, "")
		require.Error(t, err)
		assertCode(t, err, "EXCEEDS_REMAINING")
		assert.True(t, item.PaidAmount.IsZero())
		assert.Equal(t, ItemStatusPending, item.Status)
		assert.Equal(t, 1, item.Version)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		item := newTestItem(t, "5000")
		_, err := item.RecordPayment(decimal.Zero, paidAt, MethodCash, "")
		assertCode(t, err, "INVALID_AMOUNT")
	})

	t.Run("more than two decimals", func(t *testing.T) {
		item := newTestItem(t, "10000")
		for _, amount := range []string{"9999.995", "0.004"} {
			_, err := item.RecordPayment(decimal.RequireFromString(amount), paidAt, MethodCash, "")
			assertCode(t, err, "INVALID_AMOUNT")
		}
		assert.True(t, item.PaidAmount.IsZero())
		assert.Equal(t, ItemStatusPending, item.Status)
		assert.Equal(t, 1, item.Version)

		_, err := item.RecordPayment(decimal.RequireFromString("9999.99"), paidAt, MethodCash, "")
		require.NoError(t, err)
		_, err = item.RecordPayment(decimal.RequireFromString("0.01"), paidAt, MethodCash, "")
		require.NoError(t, err)
		assert.Equal(t, ItemStatusPaid, item.Status)
	})

	t.Run("already paid", func(t *testing.T) {
		item := newTestItem(t, "100")
		_, err := item.RecordPayment(decimal.NewFromInt(100), paidAt, MethodCash, "")
		require.NoError(t, err)
		_, err = item.RecordPayment(decimal.NewFromInt(1), paidAt, MethodCash, "")
		assertCode(t, err, "INVALID_STATE")
	})

	t.Run("deleted item", func(t *testing.T) {
		item := newTestItem(t, "100")
		require.NoError(t, item.SoftDelete(paidAt))
		_, err := item.RecordPayment(decimal.NewFromInt(1), paidAt, MethodCash, "")
		assertCode(t, err, "INVALID_STATE")
	})

	t.Run("invalid method", func(t *testing.T) {
		item := newTestItem(t, "100")
		_, err := item.RecordPayment(decimal.NewFromInt(1), paidAt, "cheque", "")
		assertCode(t, err, "INVALID_METHOD")
		assert.True(t, item.PaidAmount.IsZero())
	})
}

func TestPaymentItem_ReversePayment(t *testing.T) {
	item := newTestItem(t, "1000")
	_, err := item.RecordPayment(decimal.NewFromInt(1000), time.Now(), MethodCash, "")
	require.NoError(t, err)

	require.NoError(t, item.ReversePayment(decimal.NewFromInt(400)))
	assert.Equal(t, ItemStatusPartial, item.Status)

	require.NoError(t, item.ReversePayment(decimal.NewFromInt(600)))
	assert.Equal(t, ItemStatusPending, item.Status)

	assertCode(t, item.ReversePayment(decimal.NewFromInt(1)), "INVALID_STATE")
}

func TestPaymentItem_EffectiveStatus(t *testing.T) {
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	item := newTestItem(t, "1000")
	assert.Equal(t, ItemStatusPending, item.EffectiveStatus(today), "no due date")

	item.DueDate = &today
	assert.Equal(t, ItemStatusPending, item.EffectiveStatus(today), "due today is not overdue")

	item.DueDate = &yesterday
	assert.Equal(t, ItemStatusOverdue, item.EffectiveStatus(today))

	_, err := item.RecordPayment(decimal.NewFromInt(500), today, MethodCash, "")
	require.NoError(t, err)
	assert.Equal(t, ItemStatusOverdue, item.EffectiveStatus(today))
	assert.Equal(t, ItemStatusPartial, item.Status)

	_, err = item.RecordPayment(decimal.NewFromInt(500), today, MethodCash, "")
	require.NoError(t, err)
	assert.Equal(t, ItemStatusPaid, item.EffectiveStatus(today))
}

func TestPaymentItem_ApplyPatch(t *testing.T) {
	item := newTestItem(t, "1000")
	_, err := item.RecordPayment(decimal.NewFromInt(600), time.Now(), MethodCash, "")
	require.NoError(t, err)

	lower := decimal.NewFromInt(500)
	err = item.ApplyPatch(ItemPatch{TotalAmount: &lower})
	assertCode(t, err, "EXCEEDS_REMAINING")
	assert.True(t, item.TotalAmount.Equal(decimal.NewFromInt(1000)))

	fractional := decimal.RequireFromString("1000.001")
	assertCode(t, item.ApplyPatch(ItemPatch{TotalAmount: &fractional}), "INVALID_AMOUNT")
	assert.True(t, item.TotalAmount.Equal(decimal.NewFromInt(1000)))

	exact := decimal.NewFromInt(600)
	name := "Boiler (final)"
	require.NoError(t, item.ApplyPatch(ItemPatch{TotalAmount: &exact, ItemName: &name}))
	assert.Equal(t, ItemStatusPaid, item.Status)
	assert.Equal(t, "Boiler (final)", item.ItemName)

	require.NoError(t, item.SoftDelete(time.Now()))
	assertCode(t, item.ApplyPatch(ItemPatch{ItemName: &name}), "INVALID_STATE")
}

func TestPaymentItem_SoftDeleteRestore(t *testing.T) {
	item := newTestItem(t, "1000")
	now := time.Now()

	require.NoError(t, item.SoftDelete(now))
	assert.True(t, item.IsDeleted)
	require.NotNil(t, item.DeletedAt)
	assertCode(t, item.SoftDelete(now), "INVALID_STATE")

	require.NoError(t, item.Restore())
	assert.False(t, item.IsDeleted)
	assert.Nil(t, item.DeletedAt)
	assertCode(t, item.Restore(), "INVALID_STATE")
}
