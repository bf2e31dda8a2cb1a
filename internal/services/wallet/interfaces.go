package wallet

import (
	"context"

	"guildpay/internal/models"
	"guildpay/internal/repositories"

	"github.com/shopspring/decimal"
)

// Service defines the wallet ledger interface. Mutating operations return
// the updated wallet together with the audit transaction written in the same
// database transaction.
type Service interface {
	// Wallet lifecycle
	GetOrCreateWallet(ctx context.Context, userID uint, walletType string) (*models.Wallet, error)
	GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error)
	GetWalletByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	UpdateWallet(ctx context.Context, walletID uint, input UpdateInput) (*models.Wallet, error)
	GetSystemWallet(ctx context.Context) (*models.Wallet, error)

	// Ledger mutations
	AddBalance(ctx context.Context, walletID uint, amount decimal.Decimal, txType string, opts AddOptions) (*models.Wallet, *models.WalletTransaction, error)
	DeductBalance(ctx context.Context, walletID uint, amount decimal.Decimal, opts DeductOptions) (*models.Wallet, *models.WalletTransaction, error)
	ReleasePendingBalance(ctx context.Context, walletID uint, amount decimal.Decimal, orderID, actorID *uint) (*models.Wallet, *models.WalletTransaction, error)
	RefundBalance(ctx context.Context, walletID uint, amount decimal.Decimal, opts RefundOptions) (*models.Wallet, *models.WalletTransaction, error)
	AdjustBalance(ctx context.Context, walletID uint, input AdjustmentInput, actorID *uint) (*models.Wallet, *models.WalletTransaction, error)
	ReleaseAndDisburse(ctx context.Context, req DisbursementRequest) (*DisbursementResult, error)

	// Reporting
	ListWallets(ctx context.Context, q ListQuery) ([]*models.Wallet, int64, error)
	GetTransactionHistory(ctx context.Context, walletID uint, q HistoryQuery) ([]*models.WalletTransaction, int64, error)
	GetWalletStats(ctx context.Context, walletID uint) (*repositories.WalletStats, error)
	GetSystemStats(ctx context.Context) (*repositories.SystemStats, error)
}
