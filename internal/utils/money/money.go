// Package money validates and normalizes monetary amounts. All amounts in the
// system are fixed-point decimals with at most two fractional digits; binary
// floating point is never used for money.
package money

import (
	"fmt"

	"github.com/retailbank/banking_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits carried by every monetary value,
// matching currency minor units.
const Places int32 = 2

// ValidatePositive checks that amount is strictly positive and representable
// at two decimal places. Returns ErrInvalidAmount otherwise.
func ValidatePositive(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	if amount.Exponent() < -Places {
		return fmt.Errorf("%w: amount %s has more than %d decimal places", apperrors.ErrInvalidAmount, amount.String(), Places)
	}
	return nil
}

// ValidateNonNegative checks that amount is zero or positive and representable
// at two decimal places. Used for initial deposits.
func ValidateNonNegative(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative, got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	if amount.Exponent() < -Places {
		return fmt.Errorf("%w: amount %s has more than %d decimal places", apperrors.ErrInvalidAmount, amount.String(), Places)
	}
	return nil
}

// Normalize rescales an already-validated amount to exactly two decimal
// places so stored values compare and format consistently.
func Normalize(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Places)
}
