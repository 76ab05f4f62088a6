package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind indicates whether a transaction credits or debits its account.
type TransactionKind string

const (
	Credit TransactionKind = "credit"
	Debit  TransactionKind = "debit"
)

// SignedAmount returns the amount with the sign implied by the kind.
func (k TransactionKind) SignedAmount(amount decimal.Decimal) decimal.Decimal {
	if k == Debit {
		return amount.Neg()
	}
	return amount
}

// Transaction is one immutable audit-trail entry. Exactly one is written per
// affected account per successful ledger operation (a transfer writes two).
// TransactionID is a monotone sequence assigned by the log at append time and
// is the entry's total-order key.
type Transaction struct {
	TransactionID int64           `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	Kind          TransactionKind `json:"kind"`
	Amount        decimal.Decimal `json:"amount"` // Always positive; sign lives in Kind
	Description   string          `json:"description"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"` // Snapshot immediately after this entry
	Timestamp     time.Time       `json:"timestamp"`
}
