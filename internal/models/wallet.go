package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet types
const (
	WalletTypeCustomer = "CUSTOMER"
	WalletTypeWorker   = "WORKER"
	WalletTypeSupport  = "SUPPORT"
)

// Wallet is a per-user account. Balance is the spendable amount,
// PendingBalance is held against in-flight orders, and Deposit is the
// separate running total of worker capital. All three are mutated only
// through the wallet service, one database transaction per mutation.
type Wallet struct {
	ID             uint            `gorm:"primarykey"`
	UserID         uint            `gorm:"uniqueIndex;not null"`
	WalletType     string          `gorm:"size:16;not null;default:'CUSTOMER'"`
	Balance        decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0"`
	PendingBalance decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0"`
	Deposit        decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0"`
	Currency       string          `gorm:"size:8;not null;default:'USD'"`
	IsActive       bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
