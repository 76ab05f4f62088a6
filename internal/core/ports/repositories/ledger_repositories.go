package repositories

import (
	"context"
	"time"

	"github.com/retailbank/banking_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRepositoryFacade is the mutation-and-audit contract used exclusively
// by the ledger engine while it holds the affected accounts' locks.
type LedgerRepositoryFacade interface {
	// ApplyMutation atomically sets the new balance of every listed account
	// and appends the given transaction entries. Either every write becomes
	// durable or none does; a reader can never observe a balance without its
	// matching entries or vice versa. Entries are returned with their
	// assigned monotone sequence IDs.
	ApplyMutation(ctx context.Context, newBalances map[string]decimal.Decimal, entries []domain.Transaction) ([]domain.Transaction, error)

	// SetAccountStatus transitions the account's lifecycle state.
	SetAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus) error

	// FindTransactionsByAccountID returns the account's entries ordered by
	// sequence ID ascending. from is an inclusive lower time bound and to an
	// exclusive upper bound; nil means unbounded. Each call re-reads from
	// storage; no cursor state is retained.
	FindTransactionsByAccountID(ctx context.Context, accountID string, from, to *time.Time) ([]domain.Transaction, error)
}
