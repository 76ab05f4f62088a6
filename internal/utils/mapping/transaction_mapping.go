package mapping

import (
	"github.com/retailbank/banking_ledger/internal/core/domain"
	"github.com/retailbank/banking_ledger/internal/models"
)

// ToModelTransaction converts a domain.Transaction to its storage representation.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		AccountID:     d.AccountID,
		Kind:          string(d.Kind),
		Amount:        d.Amount,
		Description:   d.Description,
		BalanceAfter:  d.BalanceAfter,
		Timestamp:     d.Timestamp,
	}
}

// ToDomainTransaction converts a storage transaction back to the domain representation.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		Kind:          domain.TransactionKind(m.Kind),
		Amount:        m.Amount,
		Description:   m.Description,
		BalanceAfter:  m.BalanceAfter,
		Timestamp:     m.Timestamp,
	}
}

// ToDomainTransactionSlice converts a slice of storage transactions.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
