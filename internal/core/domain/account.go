package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the product category of an account.
type AccountType string

const (
	Savings  AccountType = "savings"
	Checking AccountType = "checking"
)

// AccountStatus is the lifecycle state of an account. Closed is terminal;
// there is no transition back to active.
type AccountStatus string

const (
	StatusActive AccountStatus = "active"
	StatusClosed AccountStatus = "closed"
)

// Account represents a customer account within the core domain.
// Balance is the single source of truth and is only mutated by the ledger
// engine under the account's mutation lock.
type Account struct {
	AccountID   string          `json:"accountID"`
	HolderName  string          `json:"holderName"`
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"` // Never negative
	Status      AccountStatus   `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// IsActive reports whether the account accepts balance-mutating operations.
func (a Account) IsActive() bool {
	return a.Status == StatusActive
}
