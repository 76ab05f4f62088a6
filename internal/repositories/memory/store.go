// Package memory provides an in-process storage backend. It backs tests and
// the standalone server mode where no database is configured. A single mutex
// guards all state so every ApplyMutation is one atomic unit.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/retailbank/banking_ledger/internal/apperrors"
	"github.com/retailbank/banking_ledger/internal/core/domain"
	portsrepo "github.com/retailbank/banking_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Store holds all accounts and the append-only transaction log.
type Store struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	order    []string // account IDs in creation order
	log      []domain.Transaction
	nextID   int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
		nextID:   1,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade  = (*Store)(nil)
	_ portsrepo.RepositoryProvider      = (*Store)(nil)
)

// Accounts returns the store as its account adapter.
func (s *Store) Accounts() portsrepo.AccountRepositoryFacade { return s }

// Ledger returns the store as its ledger adapter.
func (s *Store) Ledger() portsrepo.LedgerRepositoryFacade { return s }

// CreateAccount persists a new account and, when opening is non-nil, its
// opening credit entry within the same critical section.
func (s *Store) CreateAccount(_ context.Context, account domain.Account, opening *domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountID]; exists {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}

	s.accounts[account.AccountID] = account
	s.order = append(s.order, account.AccountID)

	if opening == nil {
		return nil, nil
	}
	entry := *opening
	entry.TransactionID = s.nextID
	s.nextID++
	s.log = append(s.log, entry)
	return &entry, nil
}

// FindAccountByID returns a copy of the account or ErrNotFound.
func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &acc, nil
}

// ListAccounts returns all accounts in creation order.
func (s *Store) ListAccounts(_ context.Context) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Account, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.accounts[id])
	}
	return out, nil
}

// UpdateAccountDetails writes holder name and account type only.
func (s *Store) UpdateAccountDetails(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.accounts[account.AccountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	stored.HolderName = account.HolderName
	stored.AccountType = account.AccountType
	s.accounts[account.AccountID] = stored
	return nil
}

// ApplyMutation sets every listed balance and appends the entries as one
// atomic unit. All accounts are verified before any write; an unknown account
// leaves the store untouched.
func (s *Store) ApplyMutation(_ context.Context, newBalances map[string]decimal.Decimal, entries []domain.Transaction) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range newBalances {
		if _, ok := s.accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	for _, e := range entries {
		if _, ok := s.accounts[e.AccountID]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, e.AccountID)
		}
	}

	for id, balance := range newBalances {
		acc := s.accounts[id]
		acc.Balance = balance
		s.accounts[id] = acc
	}

	stored := make([]domain.Transaction, len(entries))
	for i, e := range entries {
		e.TransactionID = s.nextID
		s.nextID++
		s.log = append(s.log, e)
		stored[i] = e
	}
	return stored, nil
}

// SetAccountStatus transitions the account's lifecycle state.
func (s *Store) SetAccountStatus(_ context.Context, accountID string, status domain.AccountStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	acc.Status = status
	s.accounts[accountID] = acc
	return nil
}

// FindTransactionsByAccountID returns the account's entries ordered by
// sequence ID ascending, filtered to [from, to).
func (s *Store) FindTransactionsByAccountID(_ context.Context, accountID string, from, to *time.Time) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Transaction
	for _, e := range s.log {
		if e.AccountID != accountID {
			continue
		}
		if from != nil && e.Timestamp.Before(*from) {
			continue
		}
		if to != nil && !e.Timestamp.Before(*to) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionID < out[j].TransactionID })
	return out, nil
}
