package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidAmount indicates a non-positive amount or one with more than two fractional digits.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrAccountClosed indicates a balance-mutating operation against a closed account.
var ErrAccountClosed = errors.New("account is closed")

// ErrAlreadyClosed indicates a close attempt on an account that is already closed.
var ErrAlreadyClosed = errors.New("account already closed")

// ErrInsufficientFunds indicates a debit that would take the balance below zero.
// This is an expected business outcome, not a system fault.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrNonZeroBalance indicates a close attempt while funds remain on the account.
var ErrNonZeroBalance = errors.New("account balance must be zero to close")

// ErrSameAccount indicates a transfer where source and destination are the same account.
var ErrSameAccount = errors.New("cannot transfer to the same account")

// ErrLockTimeout indicates the caller gave up waiting for an account's mutation
// lock. No state was changed; the identical operation is safe to retry.
var ErrLockTimeout = errors.New("timed out waiting for account lock")

// ErrInternal indicates an unexpected failure in storage or infrastructure.
var ErrInternal = errors.New("internal error")
