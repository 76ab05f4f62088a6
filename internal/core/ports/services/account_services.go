package services

import (
	"context"

	"github.com/retailbank/banking_ledger/internal/core/domain"
	"github.com/retailbank/banking_ledger/internal/dto"
)

// AccountSvcFacade covers account lifecycle and detail management.
// Balance-mutating operations live on LedgerSvcFacade.
type AccountSvcFacade interface {
	// OpenAccount creates a new active account. A positive initial deposit
	// produces one opening credit entry in the same atomic unit.
	OpenAccount(ctx context.Context, req dto.OpenAccountRequest) (*domain.Account, *domain.Transaction, error)

	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// UpdateAccount changes holder name and/or account type. It never touches
	// balance or status; providing no fields is a no-op success.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
}
