package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/assistant"
	"github.com/innledger/backend/internal/domain/household"
	"github.com/innledger/backend/internal/domain/inbox"
	"github.com/innledger/backend/internal/domain/loan"
	"github.com/innledger/backend/internal/domain/notification"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormHouseholdBudgetRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormHouseholdBudgetRepository(db)
	ctx := context.Background()
	may := month(t, "2024-05")

	budget, err := household.NewBudget(may, "Groceries", decimal.NewFromInt(8000), decimal.NewFromInt(8500), "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, budget))

	exists, err := repo.ExistsByMonthCategory(ctx, may, "groceries", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByMonthCategory(ctx, may, "Groceries", &budget.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	list, err := repo.FindByMonth(ctx, &may)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].OverBudget())

	other := month(t, "2024-06")
	list, err = repo.FindByMonth(ctx, &other)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGormHouseholdBudgetRepository_DuplicateIsAlreadyExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormHouseholdBudgetRepository(db)
	ctx := context.Background()
	may := month(t, "2024-05")

	first, err := household.NewBudget(may, "Utilities", decimal.NewFromInt(300), decimal.Zero, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	// a second create that passed its existence check before the first committed
	second, err := household.NewBudget(may, "Utilities", decimal.NewFromInt(350), decimal.Zero, "")
	require.NoError(t, err)
	err = repo.Save(ctx, second)
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists), "got %v", err)
}

func TestGormLoanRepository_StaleTermsUpdateConflicts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoanRepository(db)
	ctx := context.Background()

	record, err := loan.NewRecord(loan.Terms{
		RecordType:   loan.RecordTypeLoan,
		Counterparty: "City Bank",
		Principal:    decimal.NewFromInt(10000),
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, record))

	stale, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)

	paying, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	require.NoError(t, paying.RecordRepayment(decimal.NewFromInt(4000)))
	require.NoError(t, repo.SaveWithLock(ctx, paying))

	terms := loan.Terms{
		RecordType:   stale.RecordType,
		Counterparty: stale.Counterparty,
		Principal:    stale.Principal,
		StartDate:    stale.StartDate,
		Notes:        "renegotiated",
	}
	require.NoError(t, stale.SetTerms(terms))
	err = repo.SaveWithLock(ctx, stale)
	assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict), "got %v", err)

	stored, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.True(t, stored.RepaidAmount.Equal(decimal.NewFromInt(4000)))
	assert.Empty(t, stored.Notes)
}

func TestGormNotificationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()
	ref := uuid.New()

	n, err := notification.New(notification.TypeOverdue, "Overdue", "Rent is overdue")
	require.NoError(t, err)
	n.WithRef("payment_item", ref)
	require.NoError(t, repo.Save(ctx, n))

	second, err := notification.New(notification.TypeSystem, "Hello", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	exists, err := repo.ExistsForRef(ctx, notification.TypeOverdue, ref, startOfDay)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForRef(ctx, notification.TypeOverdue, ref, startOfDay.Add(48*time.Hour))
	require.NoError(t, err)
	assert.False(t, exists)

	unread, err := repo.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	changed, err := repo.MarkAllRead(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	list, err := repo.FindAll(ctx, notification.ListFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repo.Delete(ctx, n.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, n.ID), shared.ErrNotFound))
}

func TestGormInboxRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInboxRepository(db)
	ctx := context.Background()

	amount := decimal.NewFromInt(1200)
	doc, err := inbox.NewDocument(inbox.Details{
		Title:        "Laundry invoice",
		Source:       inbox.SourceEmail,
		DocumentType: inbox.DocumentTypeInvoice,
		Amount:       &amount,
		ReceivedAt:   date(2024, 4, 2),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, doc))
	require.NoError(t, doc.TransitionTo(inbox.StatusProcessed))
	require.NoError(t, repo.Save(ctx, doc))

	processed, err := repo.FindAll(ctx, inbox.StatusProcessed)
	require.NoError(t, err)
	require.Len(t, processed, 1)
	require.NotNil(t, processed[0].Amount)
	assert.True(t, processed[0].Amount.Equal(amount))

	fresh, err := repo.FindAll(ctx, inbox.StatusNew)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestGormAISettingsRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAISettingsRepository(db)
	ctx := context.Background()

	_, err := repo.Load(ctx, assistant.DefaultSettingsKey)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	settings := &assistant.Settings{
		Key:         assistant.DefaultSettingsKey,
		BaseURL:     "https://llm.example.com/v1",
		Model:       "small",
		Temperature: 0.2,
		Enabled:     true,
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Save(ctx, settings))

	settings.Model = "large"
	require.NoError(t, repo.Save(ctx, settings))

	loaded, err := repo.Load(ctx, assistant.DefaultSettingsKey)
	require.NoError(t, err)
	assert.Equal(t, "large", loaded.Model)
	assert.True(t, loaded.Enabled)
}
