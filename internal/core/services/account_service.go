package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailbank/banking_ledger/internal/apperrors"
	"github.com/retailbank/banking_ledger/internal/core/domain"
	portsrepo "github.com/retailbank/banking_ledger/internal/core/ports/repositories"
	portssvc "github.com/retailbank/banking_ledger/internal/core/ports/services"
	"github.com/retailbank/banking_ledger/internal/dto"
	"github.com/retailbank/banking_ledger/internal/middleware"
	"github.com/retailbank/banking_ledger/internal/utils/money"
)

const openingDepositDescription = "Initial deposit"

// accountService manages the account lifecycle and detail updates.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates the account lifecycle service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// newAccountID mints a short unique account identifier.
func newAccountID() string {
	return "acc" + uuid.NewString()[:8]
}

// OpenAccount creates a new active account. A positive initial deposit is
// recorded as an opening credit entry written atomically with the account
// itself, so the log replays to the starting balance.
func (s *accountService) OpenAccount(ctx context.Context, req dto.OpenAccountRequest) (*domain.Account, *domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	holderName := strings.TrimSpace(req.HolderName)
	if holderName == "" {
		return nil, nil, fmt.Errorf("%w: holder name must not be empty", apperrors.ErrValidation)
	}
	if req.AccountType != domain.Savings && req.AccountType != domain.Checking {
		return nil, nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if err := money.ValidateNonNegative(req.InitialDeposit); err != nil {
		return nil, nil, err
	}
	deposit := money.Normalize(req.InitialDeposit)

	account := domain.Account{
		AccountID:   newAccountID(),
		HolderName:  holderName,
		AccountType: req.AccountType,
		Balance:     deposit,
		Status:      domain.StatusActive,
		CreatedAt:   time.Now().UTC(),
	}

	var opening *domain.Transaction
	if deposit.IsPositive() {
		opening = &domain.Transaction{
			AccountID:    account.AccountID,
			Kind:         domain.Credit,
			Amount:       deposit,
			Description:  openingDepositDescription,
			BalanceAfter: deposit,
			Timestamp:    account.CreatedAt,
		}
	}

	stored, err := s.accountRepo.CreateAccount(ctx, account, opening)
	if err != nil {
		logger.Error("Failed to create account", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to create account: %w", err)
	}

	logger.Info("Account opened",
		slog.String("account_id", account.AccountID),
		slog.String("account_type", string(account.AccountType)),
		slog.String("initial_deposit", deposit.StringFixed(2)),
	)
	return &account, stored, nil
}

// GetAccountByID returns the account or ErrNotFound.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// ListAccounts returns all accounts ordered by creation time.
func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount changes holder name and/or account type. Balance and status
// are never written here; providing no fields succeeds without a write.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.HolderName != nil {
		holderName := strings.TrimSpace(*req.HolderName)
		if holderName == "" {
			return nil, fmt.Errorf("%w: holder name must not be empty", apperrors.ErrValidation)
		}
		acc.HolderName = holderName
		changed = true
	}
	if req.AccountType != nil {
		if *req.AccountType != domain.Savings && *req.AccountType != domain.Checking {
			return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *req.AccountType)
		}
		acc.AccountType = *req.AccountType
		changed = true
	}

	if !changed {
		return acc, nil
	}

	if err := s.accountRepo.UpdateAccountDetails(ctx, *acc); err != nil {
		logger.Error("Failed to update account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update account %s: %w", accountID, err)
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return acc, nil
}
