package services

import (
	"context"

	"github.com/retailbank/banking_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade is the ledger engine contract. Every operation is atomic
// across the accounts it touches and serialized per account; failures leave
// state untouched.
type LedgerSvcFacade interface {
	// Deposit credits amount to an active account and returns the entry.
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.Transaction, error)

	// Withdraw debits amount from an active account with sufficient funds.
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.Transaction, error)

	// Transfer moves amount between two distinct active accounts as one
	// atomic unit, returning the debit and credit entries.
	Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (debit *domain.Transaction, credit *domain.Transaction, err error)

	// CloseAccount transitions an active, zero-balance account to closed.
	CloseAccount(ctx context.Context, accountID string) error
}
