// Package services implements the core business logic behind the facades in
// internal/core/ports/services.
package services

import (
	"time"

	portsrepo "github.com/retailbank/banking_ledger/internal/core/ports/repositories"
	portssvc "github.com/retailbank/banking_ledger/internal/core/ports/services"
)

// container wires every service over a single repository provider.
type container struct {
	account portssvc.AccountSvcFacade
	ledger  portssvc.LedgerSvcFacade
	query   portssvc.QuerySvcFacade
}

// NewServiceProvider builds the full service set on top of the given storage
// backend. lockWait bounds how long mutations wait for contended accounts.
func NewServiceProvider(repos portsrepo.RepositoryProvider, lockWait time.Duration) portssvc.ServiceProvider {
	return &container{
		account: NewAccountService(repos.Accounts()),
		ledger:  NewLedgerService(repos.Accounts(), repos.Ledger(), lockWait),
		query:   NewQueryService(repos.Accounts(), repos.Ledger()),
	}
}

func (c *container) Account() portssvc.AccountSvcFacade { return c.account }
func (c *container) Ledger() portssvc.LedgerSvcFacade   { return c.ledger }
func (c *container) Query() portssvc.QuerySvcFacade     { return c.query }
