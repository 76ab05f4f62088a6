package services

import (
	"context"
	"time"

	"github.com/retailbank/banking_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// QuerySvcFacade provides read-only projections over accounts and the
// transaction log. It never mutates and never takes the mutation locks.
type QuerySvcFacade interface {
	// CheckBalance returns the current balance of the account.
	CheckBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// GetHistory returns the account's entries ordered by sequence ID
	// ascending, optionally bounded by inclusive calendar dates (UTC).
	GetHistory(ctx context.Context, accountID string, startDate, endDate *time.Time) ([]domain.Transaction, error)
}
