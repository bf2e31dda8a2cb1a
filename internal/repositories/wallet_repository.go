package repositories

import (
	"context"
	"errors"

	"guildpay/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("wallet transaction not found")
	ErrDuplicateWallet     = errors.New("wallet already exists")
)

// WalletListQuery filters and paginates wallet listings.
type WalletListQuery struct {
	Limit      int
	Offset     int
	WalletType string
	Search     string
}

// TransactionListQuery filters and paginates a wallet's audit trail.
type TransactionListQuery struct {
	WalletID uint
	Limit    int
	Offset   int
	Type     string
	Status   string
}

// WalletStats aggregates one wallet's audit trail.
type WalletStats struct {
	TotalIn          decimal.Decimal
	TotalOut         decimal.Decimal
	PendingCount     int64
	TransactionCount int64
}

// TypeTotal is a per-wallet-type balance rollup.
type TypeTotal struct {
	WalletType string
	Total      decimal.Decimal
	Count      int64
}

// SystemStats aggregates the whole ledger.
type SystemStats struct {
	TotalBalance     decimal.Decimal
	TotalPending     decimal.Decimal
	TotalDeposit     decimal.Decimal
	ActiveWallets    int64
	TransactionCount int64
	Volume           decimal.Decimal
	ByType           []TypeTotal
}

// WalletRepository defines the persistence operations the ledger needs.
// ExecuteInTransaction yields a repository bound to one database transaction;
// GetByIDForUpdate must take a row-level lock when called inside one, so the
// read-check-write sequence in the service is safe under concurrent access.
type WalletRepository interface {
	// Wallet rows
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByID(ctx context.Context, id uint) (*models.Wallet, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Wallet, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	Update(ctx context.Context, wallet *models.Wallet) error
	List(ctx context.Context, q WalletListQuery) ([]*models.Wallet, int64, error)

	// Audit trail (append-only)
	CreateTransaction(ctx context.Context, txn *models.WalletTransaction) error
	GetTransactionByID(ctx context.Context, id uint) (*models.WalletTransaction, error)
	ListTransactions(ctx context.Context, q TransactionListQuery) ([]*models.WalletTransaction, int64, error)

	// Atomicity boundary for ledger mutations
	ExecuteInTransaction(fn func(WalletRepository) error) error

	// Reporting
	GetWalletStats(ctx context.Context, walletID uint) (*WalletStats, error)
	GetSystemStats(ctx context.Context) (*SystemStats, error)
}
