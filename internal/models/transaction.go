package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction mirrors the transactions table. transaction_id is a BIGSERIAL
// assigned by the database on insert.
type Transaction struct {
	TransactionID int64           `db:"transaction_id"`
	AccountID     string          `db:"account_id"`
	Kind          string          `db:"kind"`
	Amount        decimal.Decimal `db:"amount"`
	Description   string          `db:"description"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	Timestamp     time.Time       `db:"timestamp"`
}
