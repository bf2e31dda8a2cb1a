package errors

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound = &DomainError{
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
	ErrWalletNotActive = &DomainError{
		Code:    "WALLET_NOT_ACTIVE",
		Message: "wallet is not active",
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be greater than zero",
	}
	ErrDuplicateWallet = &DomainError{
		Code:    "DUPLICATE_WALLET",
		Message: "wallet already exists for user",
	}
)

// NewInsufficientBalance reports a deduction that exceeds the spendable
// balance, including both sides of the comparison.
func NewInsufficientBalance(available, required decimal.Decimal) *DomainError {
	return &DomainError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: fmt.Sprintf("Insufficient balance. Available: %s, Required: %s", available, required),
	}
}

// NewInsufficientPendingBalance reports a release that exceeds the held amount.
func NewInsufficientPendingBalance(available, required decimal.Decimal) *DomainError {
	return &DomainError{
		Code:    "INSUFFICIENT_PENDING_BALANCE",
		Message: fmt.Sprintf("Insufficient pending balance. Available: %s, Required: %s", available, required),
	}
}

// NewNegativeBalance reports an adjustment that would take the balance below zero.
func NewNegativeBalance(balance, amount decimal.Decimal) *DomainError {
	return &DomainError{
		Code:    "NEGATIVE_BALANCE",
		Message: fmt.Sprintf("Adjustment of %s would result in negative balance (current: %s)", amount, balance),
	}
}
