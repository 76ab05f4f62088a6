// Package services defines the facades the transport layer depends on.
// Implementations live in internal/core/services.
package services

// ServiceProvider bundles all service facades for handler wiring.
type ServiceProvider interface {
	Account() AccountSvcFacade
	Ledger() LedgerSvcFacade
	Query() QuerySvcFacade
}
