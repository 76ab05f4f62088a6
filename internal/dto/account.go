package dto

import (
	"time"

	"github.com/retailbank/banking_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenAccountRequest defines the data needed to open a new account.
type OpenAccountRequest struct {
	HolderName     string             `json:"holderName" binding:"required"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=savings checking"`
	InitialDeposit decimal.Decimal    `json:"initialDeposit"` // Optional, defaults to zero
}

// UpdateAccountRequest defines the fields that may be changed on an account.
// Pointers distinguish "not provided" from zero values; balance and status
// are never updatable through this request.
type UpdateAccountRequest struct {
	HolderName  *string             `json:"holderName"`
	AccountType *domain.AccountType `json:"accountType" binding:"omitempty,oneof=savings checking"`
}

// AccountResponse mirrors domain.Account for API responses.
type AccountResponse struct {
	AccountID   string               `json:"accountID"`
	HolderName  string               `json:"holderName"`
	AccountType domain.AccountType   `json:"accountType"`
	Balance     string               `json:"balance"` // Fixed two decimal places
	Status      domain.AccountStatus `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to its API representation.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   acc.AccountID,
		HolderName:  acc.HolderName,
		AccountType: acc.AccountType,
		Balance:     acc.Balance.StringFixed(2),
		Status:      acc.Status,
		CreatedAt:   acc.CreatedAt,
	}
}

// ListAccountsResponse wraps the account listing.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToListAccountsResponse converts a slice of domain accounts.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: res}
}

// BalanceResponse is the payload for a balance lookup.
type BalanceResponse struct {
	AccountID string `json:"accountID"`
	Balance   string `json:"balance"`
}
