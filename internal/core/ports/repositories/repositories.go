// Package repositories defines the storage contracts the core services
// depend on. Adapters live under internal/repositories.
package repositories

// RepositoryProvider bundles the adapters for a given storage backend.
type RepositoryProvider interface {
	Accounts() AccountRepositoryFacade
	Ledger() LedgerRepositoryFacade
}
