package dto

import (
	"github.com/shopspring/decimal"
)

// DepositRequest credits an account.
type DepositRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// WithdrawRequest debits an account.
type WithdrawRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// TransferRequest moves funds between two accounts.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description"`
}

// TransferResponse carries the two entries a transfer produces.
type TransferResponse struct {
	Debit  TransactionResponse `json:"debit"`
	Credit TransactionResponse `json:"credit"`
}

// OpenAccountResponse carries the new account and, when an initial deposit
// was made, its opening credit entry.
type OpenAccountResponse struct {
	Account            AccountResponse      `json:"account"`
	OpeningTransaction *TransactionResponse `json:"openingTransaction,omitempty"`
}

// CloseAccountResponse confirms a successful close.
type CloseAccountResponse struct {
	AccountID string `json:"accountID"`
	Status    string `json:"status"`
}
