package wallet

import "guildpay/internal/errors"

// Service errors not covered by the shared domain error values.
var (
	ErrInvalidTransactionType = &errors.DomainError{
		Code:    "INVALID_TRANSACTION_TYPE",
		Message: "transaction type is not a valid addition type",
	}
	ErrSameWallet = &errors.DomainError{
		Code:    "SAME_WALLET",
		Message: "source and destination wallets must differ",
	}
	ErrZeroAdjustment = &errors.DomainError{
		Code:    "ZERO_ADJUSTMENT",
		Message: "adjustment amount must be non-zero",
	}
)
