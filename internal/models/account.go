package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account mirrors the accounts table.
type Account struct {
	AccountID   string          `db:"account_id"`
	HolderName  string          `db:"holder_name"`
	AccountType string          `db:"account_type"`
	Balance     decimal.Decimal `db:"balance"`
	Status      string          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
}
