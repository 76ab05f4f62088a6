package pgsql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/retailbank/banking_ledger/internal/apperrors"
	"github.com/retailbank/banking_ledger/internal/core/domain"
	portsrepo "github.com/retailbank/banking_ledger/internal/core/ports/repositories"
	"github.com/retailbank/banking_ledger/internal/models"
	"github.com/retailbank/banking_ledger/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates the mutation-and-audit repository.
func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// lockAccountRows takes row locks on every account in sorted ID order so
// concurrent mutations touching overlapping account sets cannot deadlock at
// the database level either.
func lockAccountRows(ctx context.Context, tx pgx.Tx, accountIDs []string) error {
	ids := append([]string(nil), accountIDs...)
	sort.Strings(ids)

	query := `SELECT account_id FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to lock account rows: %w", err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan locked account row: %w", err)
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating locked account rows: %w", err)
	}
	if locked != len(ids) {
		return fmt.Errorf("%w: could not lock all accounts, found %d of %d", apperrors.ErrNotFound, locked, len(ids))
	}
	return nil
}

// ApplyMutation sets the new balance of every listed account and appends the
// entries in one database transaction. Entries come back with their assigned
// sequence IDs, in input order.
func (r *PgxLedgerRepository) ApplyMutation(ctx context.Context, newBalances map[string]decimal.Decimal, entries []domain.Transaction) ([]domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	accountIDs := make([]string, 0, len(newBalances))
	for id := range newBalances {
		accountIDs = append(accountIDs, id)
	}
	if err := lockAccountRows(ctx, tx, accountIDs); err != nil {
		return nil, err
	}

	updateBalance := `UPDATE accounts SET balance = $2 WHERE account_id = $1;`
	balanceBatch := &pgx.Batch{}
	sort.Strings(accountIDs)
	for _, id := range accountIDs {
		balanceBatch.Queue(updateBalance, id, newBalances[id])
	}

	br := tx.SendBatch(ctx, balanceBatch)
	var batchErr error
	for i := 0; i < balanceBatch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to update balance for account %s: %w", accountIDs[i], err)
		} else if err == nil && ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: account %s vanished during balance update", apperrors.ErrNotFound, accountIDs[i])
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	if batchErr != nil {
		return nil, batchErr
	}

	insertEntry := `
		INSERT INTO transactions (account_id, kind, amount, description, balance_after, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING transaction_id;
	`
	stored := make([]domain.Transaction, len(entries))
	for i, entry := range entries {
		m := mapping.ToModelTransaction(entry)
		var assignedID int64
		err := tx.QueryRow(ctx, insertEntry,
			m.AccountID,
			m.Kind,
			m.Amount,
			m.Description,
			m.BalanceAfter,
			m.Timestamp,
		).Scan(&assignedID)
		if err != nil {
			return nil, fmt.Errorf("failed to append entry for account %s: %w", entry.AccountID, err)
		}
		entry.TransactionID = assignedID
		stored[i] = entry
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return stored, nil
}

// SetAccountStatus transitions the account's lifecycle state.
func (r *PgxLedgerRepository) SetAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus) error {
	query := `UPDATE accounts SET status = $2 WHERE account_id = $1;`

	cmdTag, err := r.Pool.Exec(ctx, query, accountID, string(status))
	if err != nil {
		return fmt.Errorf("failed to set status for account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// FindTransactionsByAccountID returns the account's entries ordered by
// sequence ID ascending, filtered to [from, to).
func (r *PgxLedgerRepository) FindTransactionsByAccountID(ctx context.Context, accountID string, from, to *time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, account_id, kind, amount, description, balance_after, timestamp
		FROM transactions
		WHERE account_id = $1
		  AND ($2::timestamptz IS NULL OR timestamp >= $2)
		  AND ($3::timestamptz IS NULL OR timestamp < $3)
		ORDER BY transaction_id;
	`

	rows, err := r.Pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	entries := []models.Transaction{}
	for rows.Next() {
		var m models.Transaction
		err := rows.Scan(
			&m.TransactionID,
			&m.AccountID,
			&m.Kind,
			&m.Amount,
			&m.Description,
			&m.BalanceAfter,
			&m.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return mapping.ToDomainTransactionSlice(entries), nil
}
