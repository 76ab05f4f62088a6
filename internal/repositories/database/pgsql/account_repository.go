package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/retailbank/banking_ledger/internal/apperrors"
	"github.com/retailbank/banking_ledger/internal/core/domain"
	portsrepo "github.com/retailbank/banking_ledger/internal/core/ports/repositories"
	"github.com/retailbank/banking_ledger/internal/models"
	"github.com/retailbank/banking_ledger/internal/utils/mapping"
)

const accountColumns = "account_id, holder_name, account_type, balance, status, created_at"

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.HolderName,
		&m.AccountType,
		&m.Balance,
		&m.Status,
		&m.CreatedAt,
	)
	return m, err
}

// CreateAccount inserts a new account and, when opening is non-nil, its
// opening credit entry in the same transaction.
func (r *PgxAccountRepository) CreateAccount(ctx context.Context, account domain.Account, opening *domain.Transaction) (*domain.Transaction, error) {
	modelAcc := mapping.ToModelAccount(account)

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	insertAccount := `
		INSERT INTO accounts (account_id, holder_name, account_type, balance, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, insertAccount,
		modelAcc.AccountID,
		modelAcc.HolderName,
		modelAcc.AccountType,
		modelAcc.Balance,
		modelAcc.Status,
		modelAcc.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return nil, fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, modelAcc.AccountID)
		}
		return nil, fmt.Errorf("failed to save account %s: %w", modelAcc.AccountID, err)
	}

	var stored *domain.Transaction
	if opening != nil {
		modelTxn := mapping.ToModelTransaction(*opening)
		insertEntry := `
			INSERT INTO transactions (account_id, kind, amount, description, balance_after, timestamp)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING transaction_id;
		`
		var assignedID int64
		err = tx.QueryRow(ctx, insertEntry,
			modelTxn.AccountID,
			modelTxn.Kind,
			modelTxn.Amount,
			modelTxn.Description,
			modelTxn.BalanceAfter,
			modelTxn.Timestamp,
		).Scan(&assignedID)
		if err != nil {
			return nil, fmt.Errorf("failed to save opening entry for account %s: %w", modelAcc.AccountID, err)
		}
		entry := *opening
		entry.TransactionID = assignedID
		stored = &entry
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return stored, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	domainAcc := mapping.ToDomainAccount(m)
	return &domainAcc, nil
}

// ListAccounts retrieves all accounts ordered by creation time.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, account_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	return mapping.ToDomainAccountSlice(accounts), nil
}

// UpdateAccountDetails writes holder name and account type only. Balance and
// status never change through this path.
func (r *PgxAccountRepository) UpdateAccountDetails(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET holder_name = $2, account_type = $3
		WHERE account_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, account.AccountID, account.HolderName, string(account.AccountType))
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	return nil
}
