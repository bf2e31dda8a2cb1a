package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"guildpay/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	err := r.db.WithContext(ctx).Create(wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateWallet
		}
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

// GetByIDForUpdate reads the wallet row with SELECT ... FOR UPDATE. Inside
// ExecuteInTransaction this blocks concurrent mutators on the same wallet
// until the surrounding transaction commits.
func (r *walletRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wallet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) Update(ctx context.Context, wallet *models.Wallet) error {
	if err := r.db.WithContext(ctx).Save(wallet).Error; err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) List(ctx context.Context, q WalletListQuery) ([]*models.Wallet, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Wallet{})

	if q.WalletType != "" {
		query = query.Where("wallets.wallet_type = ?", q.WalletType)
	}
	if q.Search != "" {
		pattern := "%" + strings.TrimSpace(q.Search) + "%"
		query = query.
			Joins("JOIN users ON users.id = wallets.user_id").
			Where("users.username ILIKE ? OR users.discord_id = ?", pattern, strings.TrimSpace(q.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count wallets: %w", err)
	}

	var wallets []*models.Wallet
	err := query.Order("wallets.created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&wallets).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, total, nil
}

func (r *walletRepository) CreateTransaction(ctx context.Context, txn *models.WalletTransaction) error {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create wallet transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) GetTransactionByID(ctx context.Context, id uint) (*models.WalletTransaction, error) {
	var txn models.WalletTransaction
	if err := r.db.WithContext(ctx).First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get wallet transaction: %w", err)
	}
	return &txn, nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, q TransactionListQuery) ([]*models.WalletTransaction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.WalletTransaction{}).
		Where("wallet_id = ?", q.WalletID)

	if q.Type != "" {
		query = query.Where("type = ?", q.Type)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count wallet transactions: %w", err)
	}

	var txns []*models.WalletTransaction
	err := query.Order("created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&txns).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	return txns, total, nil
}

// ExecuteInTransaction runs fn against a repository bound to one database
// transaction. gorm rolls back when fn returns an error.
func (r *walletRepository) ExecuteInTransaction(fn func(WalletRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&walletRepository{db: tx})
	})
}

func (r *walletRepository) GetWalletStats(ctx context.Context, walletID uint) (*WalletStats, error) {
	var stats WalletStats
	err := r.db.WithContext(ctx).
		Model(&models.WalletTransaction{}).
		Where("wallet_id = ?", walletID).
		Select(`
			COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) as total_in,
			COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0) as total_out,
			COALESCE(SUM(CASE WHEN status = 'PENDING' THEN 1 ELSE 0 END), 0) as pending_count,
			COUNT(*) as transaction_count
		`).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet stats: %w", err)
	}
	return &stats, nil
}

func (r *walletRepository) GetSystemStats(ctx context.Context) (*SystemStats, error) {
	var stats SystemStats
	err := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Select(`
			COALESCE(SUM(balance), 0) as total_balance,
			COALESCE(SUM(pending_balance), 0) as total_pending,
			COALESCE(SUM(deposit), 0) as total_deposit,
			COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) as active_wallets
		`).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get system wallet stats: %w", err)
	}

	var agg struct {
		TransactionCount int64
		Volume           decimal.Decimal
	}
	err = r.db.WithContext(ctx).
		Model(&models.WalletTransaction{}).
		Select(`
			COUNT(*) as transaction_count,
			COALESCE(SUM(ABS(amount)), 0) as volume
		`).
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction volume: %w", err)
	}
	stats.TransactionCount = agg.TransactionCount
	stats.Volume = agg.Volume

	err = r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Select("wallet_type, COALESCE(SUM(balance), 0) as total, COUNT(*) as count").
		Group("wallet_type").
		Scan(&stats.ByType).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get per-type totals: %w", err)
	}
	return &stats, nil
}
