package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/retailbank/banking_ledger/internal/core/ports/repositories"
)

type repositoryProvider struct {
	accounts *PgxAccountRepository
	ledger   *PgxLedgerRepository
}

// NewRepositoryProvider wires the PostgreSQL adapters over a shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return &repositoryProvider{
		accounts: newPgxAccountRepository(dbPool),
		ledger:   newPgxLedgerRepository(dbPool),
	}
}

func (p *repositoryProvider) Accounts() portsrepo.AccountRepositoryFacade { return p.accounts }
func (p *repositoryProvider) Ledger() portsrepo.LedgerRepositoryFacade   { return p.ledger }
