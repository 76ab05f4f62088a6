package dto

import (
	"time"

	"github.com/retailbank/banking_ledger/internal/core/domain"
)

// TransactionResponse mirrors domain.Transaction for API responses.
type TransactionResponse struct {
	TransactionID int64                  `json:"transactionID"`
	AccountID     string                 `json:"accountID"`
	Kind          domain.TransactionKind `json:"kind"`
	Amount        string                 `json:"amount"`
	Description   string                 `json:"description"`
	BalanceAfter  string                 `json:"balanceAfter"`
	Timestamp     time.Time              `json:"timestamp"`
}

// ToTransactionResponse converts a domain.Transaction to its API representation.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		Kind:          txn.Kind,
		Amount:        txn.Amount.StringFixed(2),
		Description:   txn.Description,
		BalanceAfter:  txn.BalanceAfter.StringFixed(2),
		Timestamp:     txn.Timestamp,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// HistoryParams holds the optional date-range filter for a history query.
// Dates are calendar days (YYYY-MM-DD), both bounds inclusive.
type HistoryParams struct {
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// HistoryResponse wraps a transaction history listing.
type HistoryResponse struct {
	AccountID    string                `json:"accountID"`
	Transactions []TransactionResponse `json:"transactions"`
}
