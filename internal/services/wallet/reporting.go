package wallet

import (
	"context"

	"guildpay/internal/models"
	"guildpay/internal/repositories"
)

// Reporting operations are read-only aggregations over the same two tables
// the ledger writes. They hold no invariants beyond pagination bounds.

func (s *service) ListWallets(ctx context.Context, q ListQuery) ([]*models.Wallet, int64, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	return s.repo.List(ctx, repositories.WalletListQuery{
		Limit:      limit,
		Offset:     (page - 1) * limit,
		WalletType: q.Type,
		Search:     q.Search,
	})
}

func (s *service) GetTransactionHistory(ctx context.Context, walletID uint, q HistoryQuery) ([]*models.WalletTransaction, int64, error) {
	if _, err := s.GetWallet(ctx, walletID); err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(q.Page, q.Limit)
	return s.repo.ListTransactions(ctx, repositories.TransactionListQuery{
		WalletID: walletID,
		Limit:    limit,
		Offset:   (page - 1) * limit,
		Type:     q.Type,
		Status:   q.Status,
	})
}

func (s *service) GetWalletStats(ctx context.Context, walletID uint) (*repositories.WalletStats, error) {
	if _, err := s.GetWallet(ctx, walletID); err != nil {
		return nil, err
	}
	return s.repo.GetWalletStats(ctx, walletID)
}

func (s *service) GetSystemStats(ctx context.Context) (*repositories.SystemStats, error) {
	return s.repo.GetSystemStats(ctx)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
