package wallet

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"guildpay/internal/errors"
	"guildpay/internal/events"
	"guildpay/internal/models"
	"guildpay/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type service struct {
	repo    repositories.WalletRepository
	users   repositories.UserRepository
	cache   Cache
	events  events.Publisher
	config  Config
	log     *logrus.Logger
	metrics MetricsCollector
}

// NewService creates a new wallet ledger service.
func NewService(
	repo repositories.WalletRepository,
	users repositories.UserRepository,
	cache Cache,
	publisher events.Publisher,
	config Config,
	log *logrus.Logger,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("wallet repository is required")
	}
	if users == nil {
		panic("user repository is required")
	}

	if config.DefaultCurrency == "" {
		config.DefaultCurrency = DefaultCurrency
	}
	if config.SystemUserDiscordID == "" {
		config.SystemUserDiscordID = DefaultSystemUserDiscordID
	}
	if cache == nil {
		cache = noopCache{}
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if log == nil {
		log = logrus.New()
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		users:   users,
		cache:   cache,
		events:  publisher,
		config:  config,
		log:     log,
		metrics: metrics,
	}
}

// additionTypes are the transaction types AddBalance accepts.
var additionTypes = map[string]struct{}{
	models.TransactionTypeDeposit:       {},
	models.TransactionTypeEarning:       {},
	models.TransactionTypeCommission:    {},
	models.TransactionTypeRefund:        {},
	models.TransactionTypeWorkerDeposit: {},
}

func (s *service) GetOrCreateWallet(ctx context.Context, userID uint, walletType string) (*models.Wallet, error) {
	wallet, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !stderrors.Is(err, repositories.ErrWalletNotFound) {
		return nil, err
	}

	if walletType == "" {
		walletType = models.WalletTypeCustomer
	}
	wallet = &models.Wallet{
		UserID:         userID,
		WalletType:     walletType,
		Balance:        decimal.Zero,
		PendingBalance: decimal.Zero,
		Deposit:        decimal.Zero,
		Currency:       s.config.DefaultCurrency,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, wallet); err != nil {
		// Lost a create race: another request made the wallet first.
		if stderrors.Is(err, repositories.ErrDuplicateWallet) {
			return s.repo.GetByUserID(ctx, userID)
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":     userID,
		"wallet_id":   wallet.ID,
		"wallet_type": walletType,
	}).Info("created wallet")
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error) {
	if wallet, err := s.cache.GetWallet(ctx, walletID); err == nil {
		return wallet, nil
	}

	wallet, err := s.repo.GetByID(ctx, walletID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if err := s.cache.CacheWallet(ctx, wallet); err != nil {
		s.log.WithError(err).Warn("failed to cache wallet")
	}
	return wallet, nil
}

func (s *service) GetWalletByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	wallet, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return wallet, nil
}

func (s *service) UpdateWallet(ctx context.Context, walletID uint, input UpdateInput) (*models.Wallet, error) {
	wallet, err := s.repo.GetByID(ctx, walletID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if input.IsActive != nil {
		wallet.IsActive = *input.IsActive
	}
	if input.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if currency != "" {
			wallet.Currency = currency
		}
	}

	if err := s.repo.Update(ctx, wallet); err != nil {
		return nil, err
	}
	s.invalidate(ctx, wallet.ID)
	return wallet, nil
}

// GetSystemWallet returns the SUPPORT-type wallet owned by the reserved
// system user, creating both on first use. Commission and system-fee flows
// credit this wallet.
func (s *service) GetSystemWallet(ctx context.Context) (*models.Wallet, error) {
	user, err := s.users.GetByDiscordID(ctx, s.config.SystemUserDiscordID)
	if stderrors.Is(err, repositories.ErrUserNotFound) {
		user = &models.User{
			DiscordID: s.config.SystemUserDiscordID,
			Username:  "System",
			Role:      models.RoleSystem,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return s.GetOrCreateWallet(ctx, user.ID, models.WalletTypeSupport)
}

func (s *service) AddBalance(ctx context.Context, walletID uint, amount decimal.Decimal, txType string, opts AddOptions) (*models.Wallet, *models.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, nil, errors.ErrInvalidAmount
	}
	if _, ok := additionTypes[txType]; !ok {
		return nil, nil, ErrInvalidTransactionType
	}

	var (
		wallet *models.Wallet
		txn    *models.WalletTransaction
	)
	start := time.Now()
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		w, err := tx.GetByIDForUpdate(ctx, walletID)
		if err != nil {
			return mapRepoError(err)
		}
		if !w.IsActive {
			return errors.ErrWalletNotActive
		}

		t := &models.WalletTransaction{
			WalletID:        w.ID,
			Type:            txType,
			Amount:          amount,
			Status:          models.TransactionStatusCompleted,
			OrderID:         opts.OrderID,
			PaymentMethodID: opts.PaymentMethodID,
			Reference:       opts.Reference,
			Notes:           opts.Notes,
			CreatedByID:     opts.CreatedByID,
		}
		if t.Reference == "" {
			t.Reference = newReference()
		}

		switch counterFor(txType) {
		case CounterDeposit:
			before := w.Deposit
			after := before.Add(amount)
			w.Deposit = after
			t.BalanceBefore = w.Balance
			t.BalanceAfter = w.Balance
			t.DepositBefore = &before
			t.DepositAfter = &after
		default:
			t.BalanceBefore = w.Balance
			w.Balance = w.Balance.Add(amount)
			t.BalanceAfter = w.Balance
		}

		if err := tx.Update(ctx, w); err != nil {
			return err
		}
		if err := tx.CreateTransaction(ctx, t); err != nil {
			return err
		}
		wallet, txn = w, t
		return nil
	})
	if err != nil {
		s.metrics.RecordError("add_balance", err.Error())
		return nil, nil, err
	}

	s.afterMutation(ctx, "add_balance", start, wallet, txn)
	return wallet, txn, nil
}

func (s *service) DeductBalance(ctx context.Context, walletID uint, amount decimal.Decimal, opts DeductOptions) (*models.Wallet, *models.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, nil, errors.ErrInvalidAmount
	}

	var (
		wallet *models.Wallet
		txn    *models.WalletTransaction
	)
	start := time.Now()
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		w, err := tx.GetByIDForUpdate(ctx, walletID)
		if err != nil {
			return mapRepoError(err)
		}
		if !w.IsActive {
			return errors.ErrWalletNotActive
		}
		if w.Balance.LessThan(amount) {
			return errors.NewInsufficientBalance(w.Balance, amount)
		}

		status := models.TransactionStatusCompleted
		before := w.Balance
		w.Balance = before.Sub(amount)
		if opts.LockAsPending {
			// Funds leave the spendable balance but stay held against the
			// order until released or refunded.
			w.PendingBalance = w.PendingBalance.Add(amount)
			status = models.TransactionStatusPending
		}

		t := &models.WalletTransaction{
			WalletID:      w.ID,
			Type:          models.TransactionTypePayment,
			Amount:        amount.Neg(),
			BalanceBefore: before,
			BalanceAfter:  w.Balance,
			Status:        status,
			OrderID:       opts.OrderID,
			Reference:     newReference(),
			Notes:         opts.Notes,
			CreatedByID:   opts.CreatedByID,
		}

		if err := tx.Update(ctx, w); err != nil {
			return err
		}
		if err := tx.CreateTransaction(ctx, t); err != nil {
			return err
		}
		wallet, txn = w, t
		return nil
	})
	if err != nil {
		s.metrics.RecordError("deduct_balance", err.Error())
		return nil, nil, err
	}

	s.afterMutation(ctx, "deduct_balance", start, wallet, txn)
	return wallet, txn, nil
}

func (s *service) ReleasePendingBalance(ctx context.Context, walletID uint, amount decimal.Decimal, orderID, actorID *uint) (*models.Wallet, *models.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, nil, errors.ErrInvalidAmount
	}

	var (
		wallet *models.Wallet
		txn    *models.WalletTransaction
	)
	start := time.Now()
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		w, err := tx.GetByIDForUpdate(ctx, walletID)
		if err != nil {
			return mapRepoError(err)
		}
		if !w.IsActive {
			return errors.ErrWalletNotActive
		}
		if w.PendingBalance.LessThan(amount) {
			return errors.NewInsufficientPendingBalance(w.PendingBalance, amount)
		}

		w.PendingBalance = w.PendingBalance.Sub(amount)

		// The earlier deduction already removed the funds from Balance, so
		// the release documents the end of the hold: snapshots unchanged.
		t := &models.WalletTransaction{
			WalletID:      w.ID,
			Type:          models.TransactionTypeRelease,
			Amount:        amount.Neg(),
			BalanceBefore: w.Balance,
			BalanceAfter:  w.Balance,
			Status:        models.TransactionStatusCompleted,
			OrderID:       orderID,
			Reference:     newReference(),
			CreatedByID:   actorID,
		}

		if err := tx.Update(ctx, w); err != nil {
			return err
		}
		if err := tx.CreateTransaction(ctx, t); err != nil {
			return err
		}
		wallet, txn = w, t
		return nil
	})
	if err != nil {
		s.metrics.RecordError("release_pending", err.Error())
		return nil, nil, err
	}

	s.afterMutation(ctx, "release_pending", start, wallet, txn)
	return wallet, txn, nil
}

func (s *service) RefundBalance(ctx context.Context, walletID uint, amount decimal.Decimal, opts RefundOptions) (*models.Wallet, *models.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, nil, errors.ErrInvalidAmount
	}

	var (
		wallet *models.Wallet
		txn    *models.WalletTransaction
	)
	start := time.Now()
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		w, err := tx.GetByIDForUpdate(ctx, walletID)
		if err != nil {
			return mapRepoError(err)
		}
		if !w.IsActive {
			return errors.ErrWalletNotActive
		}

		before := w.Balance
		w.Balance = before.Add(amount)

		t := &models.WalletTransaction{
			WalletID:      w.ID,
			Type:          models.TransactionTypeRefund,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  w.Balance,
			Status:        models.TransactionStatusCompleted,
			OrderID:       opts.OrderID,
			Reference:     newReference(),
			Notes:         opts.Notes,
			CreatedByID:   opts.CreatedByID,
		}

		if err := tx.Update(ctx, w); err != nil {
			return err
		}
		if err := tx.CreateTransaction(ctx, t); err != nil {
			return err
		}
		wallet, txn = w, t
		return nil
	})
	if err != nil {
		s.metrics.RecordError("refund_balance", err.Error())
		return nil, nil, err
	}

	s.afterMutation(ctx, "refund_balance", start, wallet, txn)
	return wallet, txn, nil
}

func (s *service) AdjustBalance(ctx context.Context, walletID uint, input AdjustmentInput, actorID *uint) (*models.Wallet, *models.WalletTransaction, error) {
	if input.Amount.IsZero() {
		return nil, nil, ErrZeroAdjustment
	}

	var (
		wallet *models.Wallet
		txn    *models.WalletTransaction
	)
	start := time.Now()
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		w, err := tx.GetByIDForUpdate(ctx, walletID)
		if err != nil {
			return mapRepoError(err)
		}
		if !w.IsActive {
			return errors.ErrWalletNotActive
		}

		before := w.Balance
		after := before.Add(input.Amount)
		if after.IsNegative() {
			return errors.NewNegativeBalance(before, input.Amount)
		}
		w.Balance = after

		reference := input.Reference
		if reference == "" {
			reference = newReference()
		}
		t := &models.WalletTransaction{
			WalletID:      w.ID,
			Type:          models.TransactionTypeAdjustment,
			Amount:        input.Amount,
			BalanceBefore: before,
			BalanceAfter:  after,
			Status:        models.TransactionStatusCompleted,
			Reference:     reference,
			Notes:         input.Notes,
			CreatedByID:   actorID,
		}

		if err := tx.Update(ctx, w); err != nil {
			return err
		}
		if err := tx.CreateTransaction(ctx, t); err != nil {
			return err
		}
		wallet, txn = w, t
		return nil
	})
	if err != nil {
		s.metrics.RecordError("adjust_balance", err.Error())
		return nil, nil, err
	}

	s.afterMutation(ctx, "adjust_balance", start, wallet, txn)
	return wallet, txn, nil
}

// ReleaseAndDisburse finalizes a customer's pending hold and pays the worker
// in one database transaction. Wallets are locked in ID order so two
// concurrent disbursements touching the same pair cannot deadlock.
func (s *service) ReleaseAndDisburse(ctx context.Context, req DisbursementRequest) (*DisbursementResult, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}
	if req.FromWalletID == req.ToWalletID {
		return nil, ErrSameWallet
	}

	var result DisbursementResult
	start := time.Now()
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		first, second := req.FromWalletID, req.ToWalletID
		if second < first {
			first, second = second, first
		}
		locked := make(map[uint]*models.Wallet, 2)
		for _, id := range []uint{first, second} {
			w, err := tx.GetByIDForUpdate(ctx, id)
			if err != nil {
				return mapRepoError(err)
			}
			locked[id] = w
		}
		from, to := locked[req.FromWalletID], locked[req.ToWalletID]

		if !from.IsActive || !to.IsActive {
			return errors.ErrWalletNotActive
		}
		if from.PendingBalance.LessThan(req.Amount) {
			return errors.NewInsufficientPendingBalance(from.PendingBalance, req.Amount)
		}

		from.PendingBalance = from.PendingBalance.Sub(req.Amount)
		release := &models.WalletTransaction{
			WalletID:      from.ID,
			Type:          models.TransactionTypeRelease,
			Amount:        req.Amount.Neg(),
			BalanceBefore: from.Balance,
			BalanceAfter:  from.Balance,
			Status:        models.TransactionStatusCompleted,
			OrderID:       req.OrderID,
			Reference:     newReference(),
			Notes:         req.Notes,
			CreatedByID:   req.CreatedByID,
		}

		beforeTo := to.Balance
		to.Balance = beforeTo.Add(req.Amount)
		earning := &models.WalletTransaction{
			WalletID:      to.ID,
			Type:          models.TransactionTypeEarning,
			Amount:        req.Amount,
			BalanceBefore: beforeTo,
			BalanceAfter:  to.Balance,
			Status:        models.TransactionStatusCompleted,
			OrderID:       req.OrderID,
			Reference:     release.Reference,
			Notes:         req.Notes,
			CreatedByID:   req.CreatedByID,
		}

		for _, w := range []*models.Wallet{from, to} {
			if err := tx.Update(ctx, w); err != nil {
				return err
			}
		}
		for _, t := range []*models.WalletTransaction{release, earning} {
			if err := tx.CreateTransaction(ctx, t); err != nil {
				return err
			}
		}

		result = DisbursementResult{
			FromWallet: from,
			ToWallet:   to,
			ReleaseTxn: release,
			EarningTxn: earning,
		}
		return nil
	})
	if err != nil {
		s.metrics.RecordError("release_and_disburse", err.Error())
		return nil, err
	}

	s.afterMutation(ctx, "release_and_disburse", start, result.FromWallet, result.ReleaseTxn)
	s.afterMutation(ctx, "release_and_disburse", start, result.ToWallet, result.EarningTxn)
	return &result, nil
}

// afterMutation runs the post-commit side effects: cache invalidation,
// event publishing, metrics and logging. None of these can fail the
// already-committed ledger write.
func (s *service) afterMutation(ctx context.Context, operation string, start time.Time, wallet *models.Wallet, txn *models.WalletTransaction) {
	if err := s.cache.InvalidateWallet(ctx, wallet.ID); err != nil {
		s.log.WithError(err).Warn("failed to invalidate wallet cache")
	}

	s.events.PublishTransaction(ctx, wallet, txn)

	s.metrics.RecordOperationDuration(operation, time.Since(start))
	s.metrics.RecordTransaction(txn.Type, txn.Amount)

	s.log.WithFields(logrus.Fields{
		"operation":      operation,
		"wallet_id":      wallet.ID,
		"transaction_id": txn.ID,
		"type":           txn.Type,
		"amount":         txn.Amount,
		"balance_after":  txn.BalanceAfter,
	}).Info("wallet mutation committed")
}

// invalidate drops the cached wallet after a non-ledger update.
func (s *service) invalidate(ctx context.Context, walletID uint) {
	if err := s.cache.InvalidateWallet(ctx, walletID); err != nil {
		s.log.WithError(err).Warn("failed to invalidate wallet cache")
	}
}

// mapRepoError translates repository sentinels into domain errors.
func mapRepoError(err error) error {
	switch {
	case stderrors.Is(err, repositories.ErrWalletNotFound):
		return errors.ErrWalletNotFound
	case stderrors.Is(err, repositories.ErrDuplicateWallet):
		return errors.ErrDuplicateWallet
	default:
		return err
	}
}

// newReference generates an external correlation id for an audit row.
func newReference() string {
	return fmt.Sprintf("%s-%s", referencePrefix, uuid.NewString())
}

type noopCache struct{}

func (noopCache) CacheWallet(context.Context, *models.Wallet) error { return nil }
func (noopCache) GetWallet(context.Context, uint) (*models.Wallet, error) {
	return nil, repositories.ErrWalletNotFound
}
func (noopCache) InvalidateWallet(context.Context, uint) error { return nil }
