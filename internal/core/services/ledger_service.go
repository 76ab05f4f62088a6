package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/retailbank/banking_ledger/internal/apperrors"
	"github.com/retailbank/banking_ledger/internal/core/domain"
	portsrepo "github.com/retailbank/banking_ledger/internal/core/ports/repositories"
	portssvc "github.com/retailbank/banking_ledger/internal/core/ports/services"
	"github.com/retailbank/banking_ledger/internal/middleware"
	"github.com/retailbank/banking_ledger/internal/utils/money"
	"github.com/shopspring/decimal"
)

const (
	defaultDepositDescription  = "Deposit"
	defaultWithdrawDescription = "Withdrawal"

	// defaultLockWait bounds how long an operation waits for a contended
	// account lock before failing with ErrLockTimeout.
	defaultLockWait = 5 * time.Second
)

// ledgerService is the core ledger engine. It serializes all mutations per
// account via the lock manager, validates under the lock, and hands the
// balance-set plus log-append to the repository as one atomic unit.
type ledgerService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	locker      *accountLocker
	lockWait    time.Duration
}

// NewLedgerService creates the ledger engine. lockWait <= 0 selects the
// default lock wait bound.
func NewLedgerService(accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, lockWait time.Duration) portssvc.LedgerSvcFacade {
	if lockWait <= 0 {
		lockWait = defaultLockWait
	}
	return &ledgerService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		locker:      newAccountLocker(),
		lockWait:    lockWait,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// acquire takes the locks for the given accounts, bounding the wait by the
// configured lock timeout on top of the caller's context.
func (s *ledgerService) acquire(ctx context.Context, accountIDs ...string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()
	return s.locker.LockAll(lockCtx, accountIDs...)
}

// mustBeActive loads an account and rejects missing or closed ones.
// Call only while holding the account's lock.
func (s *ledgerService) mustBeActive(ctx context.Context, accountID string) (*domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}
	if !acc.IsActive() {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountClosed, accountID)
	}
	return acc, nil
}

// Deposit credits amount to an active account.
func (s *ledgerService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := money.ValidatePositive(amount); err != nil {
		return nil, err
	}
	amount = money.Normalize(amount)
	if description == "" {
		description = defaultDepositDescription
	}

	release, err := s.acquire(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer release()

	acc, err := s.mustBeActive(ctx, accountID)
	if err != nil {
		return nil, err
	}

	newBalance := acc.Balance.Add(amount)
	entry := domain.Transaction{
		AccountID:    accountID,
		Kind:         domain.Credit,
		Amount:       amount,
		Description:  description,
		BalanceAfter: newBalance,
		Timestamp:    time.Now().UTC(),
	}

	stored, err := s.ledgerRepo.ApplyMutation(ctx, map[string]decimal.Decimal{accountID: newBalance}, []domain.Transaction{entry})
	if err != nil {
		logger.Error("Failed to apply deposit", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to apply deposit: %w", err)
	}

	logger.Info("Deposit applied",
		slog.String("account_id", accountID),
		slog.String("amount", amount.StringFixed(2)),
		slog.Int64("transaction_id", stored[0].TransactionID),
	)
	return &stored[0], nil
}

// Withdraw debits amount from an active account, rejecting any debit that
// would take the balance below zero. Insufficient funds is an expected
// outcome and leaves state untouched.
func (s *ledgerService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := money.ValidatePositive(amount); err != nil {
		return nil, err
	}
	amount = money.Normalize(amount)
	if description == "" {
		description = defaultWithdrawDescription
	}

	release, err := s.acquire(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer release()

	acc, err := s.mustBeActive(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if acc.Balance.LessThan(amount) {
		return nil, fmt.Errorf("%w: account %s has %s, requested %s",
			apperrors.ErrInsufficientFunds, accountID, acc.Balance.StringFixed(2), amount.StringFixed(2))
	}

	newBalance := acc.Balance.Sub(amount)
	entry := domain.Transaction{
		AccountID:    accountID,
		Kind:         domain.Debit,
		Amount:       amount,
		Description:  description,
		BalanceAfter: newBalance,
		Timestamp:    time.Now().UTC(),
	}

	stored, err := s.ledgerRepo.ApplyMutation(ctx, map[string]decimal.Decimal{accountID: newBalance}, []domain.Transaction{entry})
	if err != nil {
		logger.Error("Failed to apply withdrawal", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to apply withdrawal: %w", err)
	}

	logger.Info("Withdrawal applied",
		slog.String("account_id", accountID),
		slog.String("amount", amount.StringFixed(2)),
		slog.Int64("transaction_id", stored[0].TransactionID),
	)
	return &stored[0], nil
}

// Transfer moves amount from one active account to another as one atomic
// unit: both accounts' locks are held (acquired in sorted ID order), both
// legs are validated, and the debit and credit entries are written together
// or not at all.
func (s *ledgerService) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*domain.Transaction, *domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if fromID == toID {
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrSameAccount, fromID)
	}
	if err := money.ValidatePositive(amount); err != nil {
		return nil, nil, err
	}
	amount = money.Normalize(amount)

	debitDescription := description
	creditDescription := description
	if description == "" {
		debitDescription = fmt.Sprintf("Transfer to %s", toID)
		creditDescription = fmt.Sprintf("Transfer from %s", fromID)
	}

	release, err := s.acquire(ctx, fromID, toID)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	from, err := s.mustBeActive(ctx, fromID)
	if err != nil {
		return nil, nil, err
	}
	to, err := s.mustBeActive(ctx, toID)
	if err != nil {
		return nil, nil, err
	}

	if from.Balance.LessThan(amount) {
		return nil, nil, fmt.Errorf("%w: account %s has %s, requested %s",
			apperrors.ErrInsufficientFunds, fromID, from.Balance.StringFixed(2), amount.StringFixed(2))
	}

	now := time.Now().UTC()
	fromBalance := from.Balance.Sub(amount)
	toBalance := to.Balance.Add(amount)

	// Debit first so it receives the lower sequence ID.
	entries := []domain.Transaction{
		{
			AccountID:    fromID,
			Kind:         domain.Debit,
			Amount:       amount,
			Description:  debitDescription,
			BalanceAfter: fromBalance,
			Timestamp:    now,
		},
		{
			AccountID:    toID,
			Kind:         domain.Credit,
			Amount:       amount,
			Description:  creditDescription,
			BalanceAfter: toBalance,
			Timestamp:    now,
		},
	}

	newBalances := map[string]decimal.Decimal{
		fromID: fromBalance,
		toID:   toBalance,
	}

	stored, err := s.ledgerRepo.ApplyMutation(ctx, newBalances, entries)
	if err != nil {
		logger.Error("Failed to apply transfer",
			slog.String("from_account_id", fromID),
			slog.String("to_account_id", toID),
			slog.String("error", err.Error()),
		)
		return nil, nil, fmt.Errorf("failed to apply transfer: %w", err)
	}

	logger.Info("Transfer applied",
		slog.String("from_account_id", fromID),
		slog.String("to_account_id", toID),
		slog.String("amount", amount.StringFixed(2)),
	)
	return &stored[0], &stored[1], nil
}

// CloseAccount transitions an active account to the terminal closed state.
// The account must have settled to a zero balance first; closing with funds
// on the account would silently strand them.
func (s *ledgerService) CloseAccount(ctx context.Context, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	release, err := s.acquire(ctx, accountID)
	if err != nil {
		return err
	}
	defer release()

	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return fmt.Errorf("failed to load account %s: %w", accountID, err)
	}
	if acc.Status == domain.StatusClosed {
		return fmt.Errorf("%w: account %s", apperrors.ErrAlreadyClosed, accountID)
	}
	if !acc.Balance.IsZero() {
		return fmt.Errorf("%w: account %s holds %s", apperrors.ErrNonZeroBalance, accountID, acc.Balance.StringFixed(2))
	}

	if err := s.ledgerRepo.SetAccountStatus(ctx, accountID, domain.StatusClosed); err != nil {
		logger.Error("Failed to close account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to close account %s: %w", accountID, err)
	}

	logger.Info("Account closed", slog.String("account_id", accountID))
	return nil
}
