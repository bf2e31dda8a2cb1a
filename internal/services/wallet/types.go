package wallet

import (
	"context"

	"guildpay/internal/models"

	"github.com/shopspring/decimal"
)

// CounterTarget selects which wallet counter an addition mutates.
// WORKER_DEPOSIT transactions target the deposit counter, everything else
// targets the spendable balance. The two are never co-mutated.
type CounterTarget int

const (
	CounterBalance CounterTarget = iota
	CounterDeposit
)

// counterFor maps a transaction type to its target counter.
func counterFor(txType string) CounterTarget {
	if txType == models.TransactionTypeWorkerDeposit {
		return CounterDeposit
	}
	return CounterBalance
}

// Config holds wallet service configuration.
type Config struct {
	DefaultCurrency     string
	SystemUserDiscordID string
}

// AddOptions carries optional context for AddBalance.
type AddOptions struct {
	OrderID         *uint
	PaymentMethodID *uint
	Reference       string
	Notes           string
	CreatedByID     *uint
}

// DeductOptions carries optional context for DeductBalance. When
// LockAsPending is set the deducted amount moves into PendingBalance and the
// audit row is recorded with status PENDING.
type DeductOptions struct {
	OrderID       *uint
	Notes         string
	LockAsPending bool
	CreatedByID   *uint
}

// RefundOptions carries optional context for RefundBalance.
type RefundOptions struct {
	OrderID     *uint
	Notes       string
	CreatedByID *uint
}

// AdjustmentInput describes an administrative balance correction. Amount may
// be positive or negative.
type AdjustmentInput struct {
	Amount    decimal.Decimal
	Reference string
	Notes     string
}

// UpdateInput carries partial wallet updates. Nil fields are left unchanged.
type UpdateInput struct {
	IsActive *bool
	Currency *string
}

// ListQuery paginates and filters wallet listings.
type ListQuery struct {
	Page   int
	Limit  int
	Type   string
	Search string
}

// HistoryQuery paginates and filters a wallet's audit trail.
type HistoryQuery struct {
	Page   int
	Limit  int
	Type   string
	Status string
}

// DisbursementRequest finalizes a customer's pending hold and pays the
// worker in one atomic transaction.
type DisbursementRequest struct {
	FromWalletID uint
	ToWalletID   uint
	Amount       decimal.Decimal
	OrderID      *uint
	Notes        string
	CreatedByID  *uint
}

// DisbursementResult reports both sides of a completed disbursement.
type DisbursementResult struct {
	FromWallet *models.Wallet
	ToWallet   *models.Wallet
	ReleaseTxn *models.WalletTransaction
	EarningTxn *models.WalletTransaction
}

// Cache is the subset of the cache service the ledger uses for wallet reads.
type Cache interface {
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error)
	InvalidateWallet(ctx context.Context, walletID uint) error
}
