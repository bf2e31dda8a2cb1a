package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet transaction types
const (
	TransactionTypeDeposit       = "DEPOSIT"
	TransactionTypeWithdrawal    = "WITHDRAWAL"
	TransactionTypePayment       = "PAYMENT"
	TransactionTypeRefund        = "REFUND"
	TransactionTypeEarning       = "EARNING"
	TransactionTypeCommission    = "COMMISSION"
	TransactionTypeSystemFee     = "SYSTEM_FEE"
	TransactionTypeAdjustment    = "ADJUSTMENT"
	TransactionTypeRelease       = "RELEASE"
	TransactionTypeWorkerDeposit = "WORKER_DEPOSIT"
)

// Wallet transaction statuses
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
	TransactionStatusReversed  = "REVERSED"
)

// WalletTransaction is the append-only audit record of one balance-affecting
// event. Amount is signed (negative for outflows). BalanceBefore/After
// snapshot the wallet around the mutation; DepositBefore/After are set only
// for WORKER_DEPOSIT transactions. Rows are never updated or deleted.
type WalletTransaction struct {
	ID              uint             `gorm:"primarykey"`
	WalletID        uint             `gorm:"index;not null"`
	Type            string           `gorm:"size:16;not null"`
	Amount          decimal.Decimal  `gorm:"type:numeric(20,8);not null"`
	BalanceBefore   decimal.Decimal  `gorm:"type:numeric(20,8);not null"`
	BalanceAfter    decimal.Decimal  `gorm:"type:numeric(20,8);not null"`
	DepositBefore   *decimal.Decimal `gorm:"type:numeric(20,8)"`
	DepositAfter    *decimal.Decimal `gorm:"type:numeric(20,8)"`
	Status          string           `gorm:"size:16;not null;default:'COMPLETED'"`
	OrderID         *uint            `gorm:"index"`
	PaymentMethodID *uint
	Reference       string `gorm:"size:64"`
	Notes           string
	CreatedByID     *uint
	Metadata        JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time
}
