package services

import (
	"context"
	"fmt"
	"time"

	"github.com/retailbank/banking_ledger/internal/core/domain"
	portsrepo "github.com/retailbank/banking_ledger/internal/core/ports/repositories"
	portssvc "github.com/retailbank/banking_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// queryService serves read-only projections. Reads never take the mutation
// locks; they see whichever committed state the store currently holds.
type queryService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
}

// NewQueryService creates the read-side service.
func NewQueryService(accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.QuerySvcFacade {
	return &queryService{accountRepo: accountRepo, ledgerRepo: ledgerRepo}
}

var _ portssvc.QuerySvcFacade = (*queryService)(nil)

// CheckBalance returns the account's current balance. Closed accounts remain
// readable.
func (s *queryService) CheckBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance, nil
}

// GetHistory returns the account's transaction entries in sequence order.
// startDate and endDate are inclusive calendar days in UTC; the exclusive
// upper bound handed to the store is the start of the day after endDate.
func (s *queryService) GetHistory(ctx context.Context, accountID string, startDate, endDate *time.Time) ([]domain.Transaction, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	var from, to *time.Time
	if startDate != nil {
		f := startOfDayUTC(*startDate)
		from = &f
	}
	if endDate != nil {
		t := startOfDayUTC(*endDate).AddDate(0, 0, 1)
		to = &t
	}

	entries, err := s.ledgerRepo.FindTransactionsByAccountID(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for account %s: %w", accountID, err)
	}
	return entries, nil
}

func startOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
