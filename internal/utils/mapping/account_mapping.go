package mapping

import (
	"github.com/retailbank/banking_ledger/internal/core/domain"
	"github.com/retailbank/banking_ledger/internal/models"
)

// ToModelAccount converts a domain.Account to its storage representation.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		HolderName:  d.HolderName,
		AccountType: string(d.AccountType),
		Balance:     d.Balance,
		Status:      string(d.Status),
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainAccount converts a storage account back to the domain representation.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		HolderName:  m.HolderName,
		AccountType: domain.AccountType(m.AccountType),
		Balance:     m.Balance,
		Status:      domain.AccountStatus(m.Status),
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomainAccountSlice converts a slice of storage accounts.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
