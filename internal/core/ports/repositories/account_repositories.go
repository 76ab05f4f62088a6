package repositories

import (
	"context"

	"github.com/retailbank/banking_ledger/internal/core/domain"
)

// AccountRepositoryFacade is the account store contract. Balance and status
// are never written through this interface; those mutations go through
// LedgerRepositoryFacade so every change stays on the audited path.
type AccountRepositoryFacade interface {
	// CreateAccount persists a new account. When opening is non-nil (a
	// non-zero initial deposit) the opening credit entry is written in the
	// same atomic unit; the stored entry with its assigned sequence ID is
	// returned.
	CreateAccount(ctx context.Context, account domain.Account, opening *domain.Transaction) (*domain.Transaction, error)

	// FindAccountByID returns the account or apperrors.ErrNotFound.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts returns all accounts, ordered by creation time.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// UpdateAccountDetails persists holder name and account type changes
	// only. Balance and status on the passed account are ignored.
	UpdateAccountDetails(ctx context.Context, account domain.Account) error
}
