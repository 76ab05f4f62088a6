package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/retailbank/banking_ledger/internal/apperrors"
	"github.com/retailbank/banking_ledger/internal/core/domain"
	"github.com/retailbank/banking_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(id string, balance string) domain.Account {
	return domain.Account{
		AccountID:   id,
		HolderName:  "Holder " + id,
		AccountType: domain.Checking,
		Balance:     decimal.RequireFromString(balance),
		Status:      domain.StatusActive,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestCreateAccount_DuplicateID(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	_, err := store.CreateAccount(ctx, newAccount("acc1", "0"), nil)
	require.NoError(t, err)

	_, err = store.CreateAccount(ctx, newAccount("acc1", "0"), nil)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestCreateAccount_OpeningEntryGetsSequenceID(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	opening := &domain.Transaction{
		AccountID:    "acc1",
		Kind:         domain.Credit,
		Amount:       decimal.RequireFromString("50.00"),
		BalanceAfter: decimal.RequireFromString("50.00"),
		Timestamp:    time.Now().UTC(),
	}
	stored, err := store.CreateAccount(ctx, newAccount("acc1", "50.00"), opening)

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(1), stored.TransactionID)
}

func TestApplyMutation_UnknownAccountChangesNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	_, err := store.CreateAccount(ctx, newAccount("acc1", "100.00"), nil)
	require.NoError(t, err)

	balances := map[string]decimal.Decimal{
		"acc1":        decimal.RequireFromString("90.00"),
		"acc-missing": decimal.RequireFromString("10.00"),
	}
	entries := []domain.Transaction{
		{AccountID: "acc1", Kind: domain.Debit, Amount: decimal.RequireFromString("10.00"), BalanceAfter: decimal.RequireFromString("90.00"), Timestamp: time.Now().UTC()},
	}

	_, err = store.ApplyMutation(ctx, balances, entries)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	acc, err := store.FindAccountByID(ctx, "acc1")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("100.00")))

	history, err := store.FindTransactionsByAccountID(ctx, "acc1", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestApplyMutation_AssignsMonotoneSequenceIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	_, err := store.CreateAccount(ctx, newAccount("acc1", "0"), nil)
	require.NoError(t, err)
	_, err = store.CreateAccount(ctx, newAccount("acc2", "0"), nil)
	require.NoError(t, err)

	now := time.Now().UTC()
	stored, err := store.ApplyMutation(ctx,
		map[string]decimal.Decimal{
			"acc1": decimal.RequireFromString("10.00"),
			"acc2": decimal.RequireFromString("10.00"),
		},
		[]domain.Transaction{
			{AccountID: "acc1", Kind: domain.Credit, Amount: decimal.RequireFromString("10.00"), BalanceAfter: decimal.RequireFromString("10.00"), Timestamp: now},
			{AccountID: "acc2", Kind: domain.Credit, Amount: decimal.RequireFromString("10.00"), BalanceAfter: decimal.RequireFromString("10.00"), Timestamp: now},
		})

	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, int64(1), stored[0].TransactionID)
	assert.Equal(t, int64(2), stored[1].TransactionID)
}

func TestFindTransactions_TimeWindow(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	_, err := store.CreateAccount(ctx, newAccount("acc1", "0"), nil)
	require.NoError(t, err)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		ts := base.AddDate(0, 0, i)
		_, err := store.ApplyMutation(ctx,
			map[string]decimal.Decimal{"acc1": decimal.NewFromInt(int64(i + 1))},
			[]domain.Transaction{{AccountID: "acc1", Kind: domain.Credit, Amount: decimal.NewFromInt(1), BalanceAfter: decimal.NewFromInt(int64(i + 1)), Timestamp: ts}})
		require.NoError(t, err)
	}

	from := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	entries, err := store.FindTransactionsByAccountID(ctx, "acc1", &from, &to)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].TransactionID)
}

func TestListAccounts_CreationOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	for _, id := range []string{"accC", "accA", "accB"} {
		_, err := store.CreateAccount(ctx, newAccount(id, "0"), nil)
		require.NoError(t, err)
	}

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "accC", accounts[0].AccountID)
	assert.Equal(t, "accA", accounts[1].AccountID)
	assert.Equal(t, "accB", accounts[2].AccountID)
}
