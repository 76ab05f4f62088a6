package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/retailbank/banking_ledger/internal/apperrors"
	"github.com/retailbank/banking_ledger/internal/core/domain"
	portsrepo "github.com/retailbank/banking_ledger/internal/core/ports/repositories"
	portssvc "github.com/retailbank/banking_ledger/internal/core/ports/services"
	"github.com/retailbank/banking_ledger/internal/core/services"
	"github.com/retailbank/banking_ledger/internal/dto"
	"github.com/retailbank/banking_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// failingLedgerRepo wraps a real ledger repository and fails every
// ApplyMutation, for verifying that failed operations change nothing.
type failingLedgerRepo struct {
	portsrepo.LedgerRepositoryFacade
}

var errStorageDown = errors.New("storage unavailable")

func (f *failingLedgerRepo) ApplyMutation(ctx context.Context, newBalances map[string]decimal.Decimal, entries []domain.Transaction) ([]domain.Transaction, error) {
	return nil, errStorageDown
}

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	store    *memory.Store
	accounts portssvc.AccountSvcFacade
	ledger   portssvc.LedgerSvcFacade
	query    portssvc.QuerySvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	provider := services.NewServiceProvider(suite.store, time.Second)
	suite.accounts = provider.Account()
	suite.ledger = provider.Ledger()
	suite.query = provider.Query()
}

// openAccount is a test helper that opens an active account with the given
// starting balance.
func (suite *LedgerServiceTestSuite) openAccount(balance string) string {
	acc, _, err := suite.accounts.OpenAccount(context.Background(), dto.OpenAccountRequest{
		HolderName:     "Test Holder",
		AccountType:    domain.Checking,
		InitialDeposit: decimal.RequireFromString(balance),
	})
	suite.Require().NoError(err)
	return acc.AccountID
}

func (suite *LedgerServiceTestSuite) balance(accountID string) decimal.Decimal {
	b, err := suite.query.CheckBalance(context.Background(), accountID)
	suite.Require().NoError(err)
	return b
}

// --- Deposit / Withdraw ---

func (suite *LedgerServiceTestSuite) TestDeposit_Success() {
	ctx := context.Background()
	id := suite.openAccount("100.00")

	entry, err := suite.ledger.Deposit(ctx, id, decimal.RequireFromString("25.50"), "")

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Credit, entry.Kind)
	suite.Equal("Deposit", entry.Description)
	suite.True(entry.BalanceAfter.Equal(decimal.RequireFromString("125.50")))
	suite.True(suite.balance(id).Equal(decimal.RequireFromString("125.50")))
}

func (suite *LedgerServiceTestSuite) TestDeposit_RejectsInvalidAmounts() {
	ctx := context.Background()
	id := suite.openAccount("100.00")

	for _, amount := range []string{"0", "-5", "1.005"} {
		_, err := suite.ledger.Deposit(ctx, id, decimal.RequireFromString(amount), "")
		suite.ErrorIs(err, apperrors.ErrInvalidAmount, "amount %s", amount)
	}
	suite.True(suite.balance(id).Equal(decimal.RequireFromString("100.00")))
}

func (suite *LedgerServiceTestSuite) TestDeposit_UnknownAccount() {
	_, err := suite.ledger.Deposit(context.Background(), "acc-missing", decimal.NewFromInt(10), "")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestWithdraw_Success() {
	ctx := context.Background()
	id := suite.openAccount("100.00")

	entry, err := suite.ledger.Withdraw(ctx, id, decimal.RequireFromString("40.00"), "rent")

	suite.Require().NoError(err)
	suite.Equal(domain.Debit, entry.Kind)
	suite.Equal("rent", entry.Description)
	suite.True(entry.BalanceAfter.Equal(decimal.RequireFromString("60.00")))
}

func (suite *LedgerServiceTestSuite) TestWithdraw_ExactBalanceToZero() {
	ctx := context.Background()
	id := suite.openAccount("100.00")

	entry, err := suite.ledger.Withdraw(ctx, id, decimal.RequireFromString("100.00"), "")

	suite.Require().NoError(err)
	suite.True(entry.BalanceAfter.IsZero())
	suite.True(suite.balance(id).IsZero())
}

func (suite *LedgerServiceTestSuite) TestWithdraw_InsufficientFundsLeavesStateUntouched() {
	ctx := context.Background()
	id := suite.openAccount("50.00")

	_, err := suite.ledger.Withdraw(ctx, id, decimal.RequireFromString("50.01"), "")

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.True(suite.balance(id).Equal(decimal.RequireFromString("50.00")))

	history, herr := suite.query.GetHistory(ctx, id, nil, nil)
	suite.Require().NoError(herr)
	suite.Len(history, 1) // only the opening deposit
}

// --- Transfer ---

func (suite *LedgerServiceTestSuite) TestTransfer_MovesFundsAtomically() {
	ctx := context.Background()
	from := suite.openAccount("1000.00")
	to := suite.openAccount("0.00")

	debit, credit, err := suite.ledger.Transfer(ctx, from, to, decimal.RequireFromString("300.00"), "")

	suite.Require().NoError(err)
	suite.Equal(domain.Debit, debit.Kind)
	suite.Equal(domain.Credit, credit.Kind)
	suite.True(debit.BalanceAfter.Equal(decimal.RequireFromString("700.00")))
	suite.True(credit.BalanceAfter.Equal(decimal.RequireFromString("300.00")))
	suite.Less(debit.TransactionID, credit.TransactionID)
	suite.Equal(fmt.Sprintf("Transfer to %s", to), debit.Description)
	suite.Equal(fmt.Sprintf("Transfer from %s", from), credit.Description)

	suite.True(suite.balance(from).Equal(decimal.RequireFromString("700.00")))
	suite.True(suite.balance(to).Equal(decimal.RequireFromString("300.00")))
}

func (suite *LedgerServiceTestSuite) TestTransfer_SameAccountRejected() {
	id := suite.openAccount("100.00")

	_, _, err := suite.ledger.Transfer(context.Background(), id, id, decimal.NewFromInt(10), "")

	suite.ErrorIs(err, apperrors.ErrSameAccount)
	suite.True(suite.balance(id).Equal(decimal.RequireFromString("100.00")))
}

func (suite *LedgerServiceTestSuite) TestTransfer_InsufficientFunds() {
	ctx := context.Background()
	from := suite.openAccount("10.00")
	to := suite.openAccount("0.00")

	_, _, err := suite.ledger.Transfer(ctx, from, to, decimal.RequireFromString("10.01"), "")

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.True(suite.balance(from).Equal(decimal.RequireFromString("10.00")))
	suite.True(suite.balance(to).IsZero())
}

func (suite *LedgerServiceTestSuite) TestTransfer_StorageFailureChangesNothing() {
	ctx := context.Background()
	from := suite.openAccount("500.00")
	to := suite.openAccount("100.00")

	// Same account store, but every mutation fails at the storage layer.
	broken := services.NewLedgerService(suite.store.Accounts(), &failingLedgerRepo{suite.store.Ledger()}, time.Second)

	_, _, err := broken.Transfer(ctx, from, to, decimal.RequireFromString("200.00"), "")

	suite.Require().Error(err)
	suite.ErrorIs(err, errStorageDown)
	suite.True(suite.balance(from).Equal(decimal.RequireFromString("500.00")))
	suite.True(suite.balance(to).Equal(decimal.RequireFromString("100.00")))

	for _, id := range []string{from, to} {
		history, herr := suite.query.GetHistory(ctx, id, nil, nil)
		suite.Require().NoError(herr)
		suite.Len(history, 1)
	}
}

// --- Closed accounts ---

func (suite *LedgerServiceTestSuite) TestClosedAccountRejectsMutations() {
	ctx := context.Background()
	closed := suite.openAccount("0.00")
	other := suite.openAccount("100.00")
	suite.Require().NoError(suite.ledger.CloseAccount(ctx, closed))

	_, err := suite.ledger.Deposit(ctx, closed, decimal.NewFromInt(10), "")
	suite.ErrorIs(err, apperrors.ErrAccountClosed)

	_, err = suite.ledger.Withdraw(ctx, closed, decimal.NewFromInt(10), "")
	suite.ErrorIs(err, apperrors.ErrAccountClosed)

	_, _, err = suite.ledger.Transfer(ctx, other, closed, decimal.NewFromInt(10), "")
	suite.ErrorIs(err, apperrors.ErrAccountClosed)

	_, _, err = suite.ledger.Transfer(ctx, closed, other, decimal.NewFromInt(10), "")
	suite.ErrorIs(err, apperrors.ErrAccountClosed)

	// Reads still work on a closed account.
	suite.True(suite.balance(closed).IsZero())
	_, err = suite.query.GetHistory(ctx, closed, nil, nil)
	suite.NoError(err)
}

func (suite *LedgerServiceTestSuite) TestCloseAccount_NonZeroBalanceRejected() {
	id := suite.openAccount("5.00")

	err := suite.ledger.CloseAccount(context.Background(), id)

	suite.ErrorIs(err, apperrors.ErrNonZeroBalance)
	acc, gerr := suite.accounts.GetAccountByID(context.Background(), id)
	suite.Require().NoError(gerr)
	suite.Equal(domain.StatusActive, acc.Status)
}

func (suite *LedgerServiceTestSuite) TestCloseAccount_AlreadyClosed() {
	ctx := context.Background()
	id := suite.openAccount("0.00")
	suite.Require().NoError(suite.ledger.CloseAccount(ctx, id))

	err := suite.ledger.CloseAccount(ctx, id)

	suite.ErrorIs(err, apperrors.ErrAlreadyClosed)
}

// --- Ledger invariants ---

// The log must replay to the current balance: the opening deposit plus every
// signed entry amount equals the balance, and each entry's BalanceAfter is
// the running sum at that point.
func (suite *LedgerServiceTestSuite) TestHistoryReplaysToBalance() {
	ctx := context.Background()
	id := suite.openAccount("100.00")
	other := suite.openAccount("0.00")

	_, err := suite.ledger.Deposit(ctx, id, decimal.RequireFromString("49.99"), "")
	suite.Require().NoError(err)
	_, err = suite.ledger.Withdraw(ctx, id, decimal.RequireFromString("20.00"), "")
	suite.Require().NoError(err)
	_, _, err = suite.ledger.Transfer(ctx, id, other, decimal.RequireFromString("30.50"), "")
	suite.Require().NoError(err)
	_, err = suite.ledger.Deposit(ctx, id, decimal.RequireFromString("0.01"), "")
	suite.Require().NoError(err)

	history, err := suite.query.GetHistory(ctx, id, nil, nil)
	suite.Require().NoError(err)

	running := decimal.Zero
	lastID := int64(0)
	for _, e := range history {
		suite.Greater(e.TransactionID, lastID, "sequence IDs must be strictly increasing")
		lastID = e.TransactionID
		running = running.Add(e.Kind.SignedAmount(e.Amount))
		suite.True(running.Equal(e.BalanceAfter), "entry %d: replayed %s, recorded %s", e.TransactionID, running, e.BalanceAfter)
	}
	suite.True(running.Equal(suite.balance(id)))
}

// Total money across accounts is conserved by transfers.
func (suite *LedgerServiceTestSuite) TestTransfersConserveTotal() {
	ctx := context.Background()
	a := suite.openAccount("300.00")
	b := suite.openAccount("200.00")
	c := suite.openAccount("0.00")
	total := decimal.RequireFromString("500.00")

	_, _, err := suite.ledger.Transfer(ctx, a, b, decimal.RequireFromString("120.25"), "")
	suite.Require().NoError(err)
	_, _, err = suite.ledger.Transfer(ctx, b, c, decimal.RequireFromString("75.75"), "")
	suite.Require().NoError(err)
	_, _, err = suite.ledger.Transfer(ctx, c, a, decimal.RequireFromString("0.50"), "")
	suite.Require().NoError(err)

	sum := suite.balance(a).Add(suite.balance(b)).Add(suite.balance(c))
	suite.True(sum.Equal(total), "total drifted to %s", sum)
}

// --- Concurrency ---

func (suite *LedgerServiceTestSuite) TestConcurrentDepositsAllApply() {
	ctx := context.Background()
	id := suite.openAccount("0.00")

	const workers = 50
	amount := decimal.RequireFromString("1.00")

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.ledger.Deposit(ctx, id, amount, "")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		suite.NoError(err)
	}

	suite.True(suite.balance(id).Equal(decimal.RequireFromString("50.00")))

	history, err := suite.query.GetHistory(ctx, id, nil, nil)
	suite.Require().NoError(err)
	suite.Len(history, workers)
	suite.True(history[len(history)-1].BalanceAfter.Equal(decimal.RequireFromString("50.00")))
}

func (suite *LedgerServiceTestSuite) TestConcurrentDepositsToDistinctAccounts() {
	ctx := context.Background()

	const accounts = 10
	ids := make([]string, accounts)
	for i := range ids {
		ids[i] = suite.openAccount("0.00")
	}

	// Each account gets its own distinct amount so cross-account
	// interference would be visible in the final balances.
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			amount := decimal.NewFromInt(int64(i + 1))
			_, err := suite.ledger.Deposit(ctx, id, amount, "")
			suite.NoError(err)
		}(i, id)
	}
	wg.Wait()

	for i, id := range ids {
		want := decimal.NewFromInt(int64(i + 1))
		suite.True(suite.balance(id).Equal(want), "account %d: got %s", i, suite.balance(id))
	}
}

func (suite *LedgerServiceTestSuite) TestConcurrentWithdrawalsNeverOverdraw() {
	ctx := context.Background()
	id := suite.openAccount("100.00")

	// 30 withdrawals of 10.00 against 100.00: exactly 10 may succeed.
	const workers = 30
	amount := decimal.RequireFromString("10.00")

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.ledger.Withdraw(ctx, id, amount, "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
		}
	}
	suite.Equal(10, succeeded)
	suite.True(suite.balance(id).IsZero())
}

func (suite *LedgerServiceTestSuite) TestOpposingTransfersDoNotDeadlock() {
	ctx := context.Background()
	a := suite.openAccount("1000.00")
	b := suite.openAccount("1000.00")
	amount := decimal.RequireFromString("1.00")

	const rounds = 25
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, _, err := suite.ledger.Transfer(ctx, a, b, amount, "")
			suite.NoError(err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, _, err := suite.ledger.Transfer(ctx, b, a, amount, "")
			suite.NoError(err)
		}
	}()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		suite.FailNow("opposing transfers deadlocked")
	}

	suite.True(suite.balance(a).Equal(decimal.RequireFromString("1000.00")))
	suite.True(suite.balance(b).Equal(decimal.RequireFromString("1000.00")))
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
