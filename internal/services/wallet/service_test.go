package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "guildpay/internal/errors"
	"guildpay/internal/models"
	"guildpay/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWalletRepo is an in-memory WalletRepository with transactional
// semantics: ExecuteInTransaction snapshots all state and restores it when
// the callback fails, so rollback behavior can be asserted.
type fakeWalletRepo struct {
	wallets      map[uint]*models.Wallet
	txns         []*models.WalletTransaction
	nextWalletID uint
	nextTxnID    uint

	failCreateTxn bool
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: map[uint]*models.Wallet{}}
}

func copyWallet(w *models.Wallet) *models.Wallet {
	cp := *w
	return &cp
}

func (f *fakeWalletRepo) Create(_ context.Context, w *models.Wallet) error {
	for _, existing := range f.wallets {
		if existing.UserID == w.UserID {
			return repositories.ErrDuplicateWallet
		}
	}
	f.nextWalletID++
	w.ID = f.nextWalletID
	w.CreatedAt = time.Now()
	f.wallets[w.ID] = copyWallet(w)
	return nil
}

func (f *fakeWalletRepo) GetByID(_ context.Context, id uint) (*models.Wallet, error) {
	w, ok := f.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	return copyWallet(w), nil
}

func (f *fakeWalletRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Wallet, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeWalletRepo) GetByUserID(_ context.Context, userID uint) (*models.Wallet, error) {
	for _, w := range f.wallets {
		if w.UserID == userID {
			return copyWallet(w), nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (f *fakeWalletRepo) Update(_ context.Context, w *models.Wallet) error {
	if _, ok := f.wallets[w.ID]; !ok {
		return repositories.ErrWalletNotFound
	}
	f.wallets[w.ID] = copyWallet(w)
	return nil
}

func (f *fakeWalletRepo) List(_ context.Context, q repositories.WalletListQuery) ([]*models.Wallet, int64, error) {
	var all []*models.Wallet
	for _, w := range f.wallets {
		if q.WalletType != "" && w.WalletType != q.WalletType {
			continue
		}
		all = append(all, copyWallet(w))
	}
	total := int64(len(all))
	if q.Offset >= len(all) {
		return nil, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[q.Offset:end], total, nil
}

func (f *fakeWalletRepo) CreateTransaction(_ context.Context, txn *models.WalletTransaction) error {
	if f.failCreateTxn {
		return errors.New("storage failure")
	}
	f.nextTxnID++
	txn.ID = f.nextTxnID
	txn.CreatedAt = time.Now()
	cp := *txn
	f.txns = append(f.txns, &cp)
	return nil
}

func (f *fakeWalletRepo) GetTransactionByID(_ context.Context, id uint) (*models.WalletTransaction, error) {
	for _, t := range f.txns {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (f *fakeWalletRepo) ListTransactions(_ context.Context, q repositories.TransactionListQuery) ([]*models.WalletTransaction, int64, error) {
	var matched []*models.WalletTransaction
	// newest first, like the real implementation
	for i := len(f.txns) - 1; i >= 0; i-- {
		t := f.txns[i]
		if t.WalletID != q.WalletID {
			continue
		}
		if q.Type != "" && t.Type != q.Type {
			continue
		}
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		cp := *t
		matched = append(matched, &cp)
	}
	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return nil, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[q.Offset:end], total, nil
}

func (f *fakeWalletRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	snapWallets := make(map[uint]*models.Wallet, len(f.wallets))
	for id, w := range f.wallets {
		snapWallets[id] = copyWallet(w)
	}
	snapTxns := make([]*models.WalletTransaction, len(f.txns))
	copy(snapTxns, f.txns)
	snapNextTxn := f.nextTxnID

	if err := fn(f); err != nil {
		f.wallets = snapWallets
		f.txns = snapTxns
		f.nextTxnID = snapNextTxn
		return err
	}
	return nil
}

func (f *fakeWalletRepo) GetWalletStats(_ context.Context, walletID uint) (*repositories.WalletStats, error) {
	stats := &repositories.WalletStats{
		TotalIn:  decimal.Zero,
		TotalOut: decimal.Zero,
	}
	for _, t := range f.txns {
		if t.WalletID != walletID {
			continue
		}
		stats.TransactionCount++
		if t.Status == models.TransactionStatusPending {
			stats.PendingCount++
		}
		if t.Amount.IsPositive() {
			stats.TotalIn = stats.TotalIn.Add(t.Amount)
		} else {
			stats.TotalOut = stats.TotalOut.Add(t.Amount.Neg())
		}
	}
	return stats, nil
}

func (f *fakeWalletRepo) GetSystemStats(_ context.Context) (*repositories.SystemStats, error) {
	stats := &repositories.SystemStats{
		TotalBalance: decimal.Zero,
		TotalPending: decimal.Zero,
		TotalDeposit: decimal.Zero,
		Volume:       decimal.Zero,
	}
	for _, w := range f.wallets {
		stats.TotalBalance = stats.TotalBalance.Add(w.Balance)
		stats.TotalPending = stats.TotalPending.Add(w.PendingBalance)
		stats.TotalDeposit = stats.TotalDeposit.Add(w.Deposit)
		if w.IsActive {
			stats.ActiveWallets++
		}
	}
	for _, t := range f.txns {
		stats.TransactionCount++
		stats.Volume = stats.Volume.Add(t.Amount.Abs())
	}
	return stats, nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByDiscordID(_ context.Context, discordID string) (*models.User, error) {
	for _, u := range f.users {
		if u.DiscordID == discordID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func d(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func assertDec(t *testing.T, expected, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, expected.Equal(actual), "expected %s, got %s", expected, actual)
}

func newTestService(t *testing.T) (Service, *fakeWalletRepo, *fakeUserRepo) {
	t.Helper()
	repo := newFakeWalletRepo()
	users := newFakeUserRepo()
	svc := NewService(repo, users, nil, nil, Config{}, nil, nil)
	return svc, repo, users
}

func seedWallet(t *testing.T, svc Service, users *fakeUserRepo) *models.Wallet {
	t.Helper()
	u := &models.User{DiscordID: "100001", Username: "buyer"}
	require.NoError(t, users.Create(context.Background(), u))
	w, err := svc.GetOrCreateWallet(context.Background(), u.ID, models.WalletTypeCustomer)
	require.NoError(t, err)
	return w
}

func TestGetOrCreateWallet(t *testing.T) {
	svc, repo, users := newTestService(t)
	ctx := context.Background()

	u := &models.User{DiscordID: "42", Username: "alice"}
	require.NoError(t, users.Create(ctx, u))

	w, err := svc.GetOrCreateWallet(ctx, u.ID, models.WalletTypeCustomer)
	require.NoError(t, err)
	assert.Equal(t, models.WalletTypeCustomer, w.WalletType)
	assert.True(t, w.IsActive)
	assertDec(t, d(0), w.Balance)
	assertDec(t, d(0), w.PendingBalance)
	assertDec(t, d(0), w.Deposit)
	assert.Equal(t, "USD", w.Currency)

	// second call returns the same wallet, even with a different type
	again, err := svc.GetOrCreateWallet(ctx, u.ID, models.WalletTypeWorker)
	require.NoError(t, err)
	assert.Equal(t, w.ID, again.ID)
	assert.Equal(t, models.WalletTypeCustomer, again.WalletType)
	assert.Len(t, repo.wallets, 1)
}

func TestAddBalance(t *testing.T) {
	t.Run("deposit credits balance with snapshots", func(t *testing.T) {
		svc, repo, users := newTestService(t)
		ctx := context.Background()
		w := seedWallet(t, svc, users)

		updated, txn, err := svc.AddBalance(ctx, w.ID, d(50), models.TransactionTypeDeposit, AddOptions{})
		require.NoError(t, err)

		assertDec(t, d(50), updated.Balance)
		assertDec(t, d(50), txn.Amount)
		assertDec(t, d(0), txn.BalanceBefore)
		assertDec(t, d(50), txn.BalanceAfter)
		assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
		assert.Nil(t, txn.DepositBefore)
		assert.NotEmpty(t, txn.Reference)
		assert.Len(t, repo.txns, 1)
	})

	t.Run("worker deposit targets the deposit counter only", func(t *testing.T) {
		svc, _, users := newTestService(t)
		ctx := context.Background()
		w := seedWallet(t, svc, users)

		_, _, err := svc.AddBalance(ctx, w.ID, d(25), models.TransactionTypeDeposit, AddOptions{})
		require.NoError(t, err)

		updated, txn, err := svc.AddBalance(ctx, w.ID, d(40), models.TransactionTypeWorkerDeposit, AddOptions{})
		require.NoError(t, err)

		assertDec(t, d(40), updated.Deposit)
		assertDec(t, d(25), updated.Balance)
		require.NotNil(t, txn.DepositBefore)
		require.NotNil(t, txn.DepositAfter)
		assertDec(t, d(0), *txn.DepositBefore)
		assertDec(t, d(40), *txn.DepositAfter)
		assertDec(t, txn.BalanceBefore, txn.BalanceAfter)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc, repo, users := newTestService(t)
		w := seedWallet(t, svc, users)

		for _, amount := range []decimal.Decimal{d(0), d(-10)} {
			_, _, err := svc.AddBalance(context.Background(), w.ID, amount, models.TransactionTypeDeposit, AddOptions{})
			assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)
		}
		assert.Empty(t, repo.txns)
	})

	t.Run("rejects non-addition transaction types", func(t *testing.T) {
		svc, _, users := newTestService(t)
		w := seedWallet(t, svc, users)

		_, _, err := svc.AddBalance(context.Background(), w.ID, d(10), models.TransactionTypePayment, AddOptions{})
		assert.ErrorIs(t, err, ErrInvalidTransactionType)
	})

	t.Run("rejects inactive wallets", func(t *testing.T) {
		svc, _, users := newTestService(t)
		ctx := context.Background()
		w := seedWallet(t, svc, users)

		inactive := false
		_, err := svc.UpdateWallet(ctx, w.ID, UpdateInput{IsActive: &inactive})
		require.NoError(t, err)

		_, _, err = svc.AddBalance(ctx, w.ID, d(10), models.TransactionTypeDeposit, AddOptions{})
		assert.ErrorIs(t, err, domainerrors.ErrWalletNotActive)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, _, err := svc.AddBalance(context.Background(), 999, d(10), models.TransactionTypeDeposit, AddOptions{})
		assert.ErrorIs(t, err, domainerrors.ErrWalletNotFound)
	})
}

func TestDeductBalance(t *testing.T) {
	t.Run("deducts and records negative amount", func(t *testing.T) {
		svc, _, users := newTestService(t)
		ctx := context.Background()
		w := seedWallet(t, svc, users)
		_, _, err := svc.AddBalance(ctx, w.ID, d(50), models.TransactionTypeDeposit, AddOptions{})
		require.NoError(t, err)

		updated, txn, err := svc.DeductBalance(ctx, w.ID, d(30), DeductOptions{})
		require.NoError(t, err)

		assertDec(t, d(20), updated.Balance)
		assertDec(t, d(-30), txn.Amount)
		assertDec(t, d(50), txn.BalanceBefore)
		assertDec(t, d(20), txn.BalanceAfter)
		assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
	})

	t.Run("insufficient balance leaves state untouched", func(t *testing.T) {
		svc, repo, users := newTestService(t)
		ctx := context.Background()
		w := seedWallet(t, svc, users)
		_, _, err := svc.AddBalance(ctx, w.ID, d(50), models.TransactionTypeDeposit, AddOptions{})
		require.NoError(t, err)
		txnsBefore := len(repo.txns)

		_, _, err = svc.DeductBalance(ctx, w.ID, d(100), DeductOptions{})
		require.Error(t, err)
		assert.EqualError(t, err, "Insufficient balance. Available: 50, Required: 100")

		current, getErr := svc.GetWallet(ctx, w.ID)
		require.NoError(t, getErr)
		assertDec(t, d(50), current.Balance)
		assert.Len(t, repo.txns, txnsBefore)
	})

	t.Run("lock as pending holds the funds", func(t *testing.T) {
		svc, _, users := newTestService(t)
		ctx := context.Background()
		w := seedWallet(t, svc, users)
		_, _, err := svc.AddBalance(ctx, w.ID, d(50), models.TransactionTypeDeposit, AddOptions{})
		require.NoError(t, err)

		orderID := uint(7)
		updated, txn, err := svc.DeductBalance(ctx, w.ID, d(20), DeductOptions{
			OrderID:       &orderID,
			LockAsPending: true,
		})
		require.NoError(t, err)

		assertDec(t, d(30), updated.Balance)
		assertDec(t, d(20), updated.PendingBalance)
		assert.Equal(t, models.TransactionStatusPending, txn.Status)
		require.NotNil(t, txn.OrderID)
		assert.Equal(t, orderID, *txn.OrderID)
	})
}

func TestReleasePendingBalance(t *testing.T) {
	t.Run("release ends the hold without touching balance", func(t *testing.T) {
		svc, _, users := newTestService(t)
		ctx := context.Background()
		w := seedWallet(t, svc, users)
		_, _, err := svc.AddBalance(ctx, w.ID, d(50), models.TransactionTypeDeposit, AddOptions{})
		require.NoError(t, err)
		_, _, err = svc.DeductBalance(ctx, w.ID, d(20), DeductOptions{LockAsPending: true})
		require.NoError(t, err)

		updated, txn, err := svc.ReleasePendingBalance(ctx, w.ID, d(20), nil, nil)
		require.NoError(t, err)

		assertDec(t, d(30), updated.Balance)
		assertDec(t, d(0), updated.PendingBalance)
		assert.Equal(t, models.TransactionTypeRelease, txn.Type)
		assertDec(t, txn.BalanceBefore, txn.BalanceAfter)
	})

	t.Run("insufficient pending balance", func(t *testing.T) {
		svc, _, users := newTestService(t)
		ctx := context.Background()
		w := seedWallet(t, svc, users)
		_, _, err := svc.AddBalance(ctx, w.ID, d(50), models.TransactionTypeDeposit, AddOptions{})
		require.NoError(t, err)

		_, _, err = svc.ReleasePendingBalance(ctx, w.ID, d(10), nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Insufficient pending balance")
	})
}

func TestRefundBalance(t *testing.T) {
	svc, _, users := newTestService(t)
	ctx := context.Background()
	w := seedWallet(t, svc, users)
	_, _, err := svc.AddBalance(ctx, w.ID, d(50), models.TransactionTypeDeposit, AddOptions{})
	require.NoError(t, err)
	_, _, err = svc.DeductBalance(ctx, w.ID, d(20), DeductOptions{LockAsPending: true})
	require.NoError(t, err)

	// refund restores the spendable balance; the pending counter is not
	// touched (the hold is resolved separately)
	updated, txn, err := svc.RefundBalance(ctx, w.ID, d(20), RefundOptions{})
	require.NoError(t, err)

	assertDec(t, d(50), updated.Balance)
	assertDec(t, d(20), updated.PendingBalance)
	assert.Equal(t, models.TransactionTypeRefund, txn.Type)
	assertDec(t, d(30), txn.BalanceBefore)
	assertDec(t, d(50), txn.BalanceAfter)
}

func TestAdjustBalance(t *testing.T) {
	t.Run("positive and negative corrections", func(t *testing.T) {
		svc, _, users := newTestService(t)
		ctx := context.Background()
		w := seedWallet(t, svc, users)
		_, _, err := svc.AddBalance(ctx, w.ID, d(50), models.TransactionTypeDeposit, AddOptions{})
		require.NoError(t, err)

		updated, txn, err := svc.AdjustBalance(ctx, w.ID, AdjustmentInput{Amount: d(-15), Notes: "chargeback"}, nil)
		require.NoError(t, err)
		assertDec(t, d(35), updated.Balance)
		assert.Equal(t, models.TransactionTypeAdjustment, txn.Type)
		assertDec(t, d(-15), txn.Amount)

		updated, _, err = svc.AdjustBalance(ctx, w.ID, AdjustmentInput{Amount: d(5)}, nil)
		require.NoError(t, err)
		assertDec(t, d(40), updated.Balance)
	})

	t.Run("rejects adjustments below zero", func(t *testing.T) {
		svc, repo, users := newTestService(t)
		ctx := context.Background()
		w := seedWallet(t, svc, users)
		_, _, err := svc.AddBalance(ctx, w.ID, d(5), models.TransactionTypeDeposit, AddOptions{})
		require.NoError(t, err)
		txnsBefore := len(repo.txns)

		_, _, err = svc.AdjustBalance(ctx, w.ID, AdjustmentInput{Amount: d(-10)}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "would result in negative balance")

		current, getErr := svc.GetWallet(ctx, w.ID)
		require.NoError(t, getErr)
		assertDec(t, d(5), current.Balance)
		assert.Len(t, repo.txns, txnsBefore)
	})

	t.Run("rejects zero adjustments", func(t *testing.T) {
		svc, _, users := newTestService(t)
		w := seedWallet(t, svc, users)

		_, _, err := svc.AdjustBalance(context.Background(), w.ID, AdjustmentInput{}, nil)
		assert.ErrorIs(t, err, ErrZeroAdjustment)
	})
}

func TestConservation(t *testing.T) {
	svc, _, users := newTestService(t)
	ctx := context.Background()
	w := seedWallet(t, svc, users)

	_, _, err := svc.AddBalance(ctx, w.ID, d(75), models.TransactionTypeDeposit, AddOptions{})
	require.NoError(t, err)
	updated, _, err := svc.DeductBalance(ctx, w.ID, d(75), DeductOptions{})
	require.NoError(t, err)

	assertDec(t, d(0), updated.Balance)
}

func TestAtomicity(t *testing.T) {
	svc, repo, users := newTestService(t)
	ctx := context.Background()
	w := seedWallet(t, svc, users)
	_, _, err := svc.AddBalance(ctx, w.ID, d(50), models.TransactionTypeDeposit, AddOptions{})
	require.NoError(t, err)

	// The audit insert fails mid-transaction: the balance write must roll
	// back with it.
	repo.failCreateTxn = true
	_, _, err = svc.DeductBalance(ctx, w.ID, d(30), DeductOptions{})
	require.Error(t, err)
	repo.failCreateTxn = false

	current, err := svc.GetWallet(ctx, w.ID)
	require.NoError(t, err)
	assertDec(t, d(50), current.Balance)
	assert.Len(t, repo.txns, 1)
}

func TestAuditCompleteness(t *testing.T) {
	svc, repo, users := newTestService(t)
	ctx := context.Background()
	w := seedWallet(t, svc, users)

	_, _, err := svc.AddBalance(ctx, w.ID, d(100), models.TransactionTypeDeposit, AddOptions{})
	require.NoError(t, err)
	_, _, err = svc.DeductBalance(ctx, w.ID, d(40), DeductOptions{})
	require.NoError(t, err)
	_, _, err = svc.RefundBalance(ctx, w.ID, d(10), RefundOptions{})
	require.NoError(t, err)

	require.Len(t, repo.txns, 3)

	// snapshots chain: each row's BalanceAfter is the next row's BalanceBefore
	for i := 1; i < len(repo.txns); i++ {
		assertDec(t, repo.txns[i-1].BalanceAfter, repo.txns[i].BalanceBefore)
	}
	current, err := svc.GetWallet(ctx, w.ID)
	require.NoError(t, err)
	assertDec(t, repo.txns[len(repo.txns)-1].BalanceAfter, current.Balance)
}

func TestReleaseAndDisburse(t *testing.T) {
	setup := func(t *testing.T) (Service, *fakeWalletRepo, *models.Wallet, *models.Wallet) {
		svc, repo, users := newTestService(t)
		ctx := context.Background()

		buyer := &models.User{DiscordID: "1", Username: "buyer"}
		worker := &models.User{DiscordID: "2", Username: "worker"}
		require.NoError(t, users.Create(ctx, buyer))
		require.NoError(t, users.Create(ctx, worker))

		buyerWallet, err := svc.GetOrCreateWallet(ctx, buyer.ID, models.WalletTypeCustomer)
		require.NoError(t, err)
		workerWallet, err := svc.GetOrCreateWallet(ctx, worker.ID, models.WalletTypeWorker)
		require.NoError(t, err)

		_, _, err = svc.AddBalance(ctx, buyerWallet.ID, d(100), models.TransactionTypeDeposit, AddOptions{})
		require.NoError(t, err)
		_, _, err = svc.DeductBalance(ctx, buyerWallet.ID, d(60), DeductOptions{LockAsPending: true})
		require.NoError(t, err)
		return svc, repo, buyerWallet, workerWallet
	}

	t.Run("moves the hold to the worker atomically", func(t *testing.T) {
		svc, _, buyerWallet, workerWallet := setup(t)
		ctx := context.Background()

		result, err := svc.ReleaseAndDisburse(ctx, DisbursementRequest{
			FromWalletID: buyerWallet.ID,
			ToWalletID:   workerWallet.ID,
			Amount:       d(60),
		})
		require.NoError(t, err)

		assertDec(t, d(0), result.FromWallet.PendingBalance)
		assertDec(t, d(40), result.FromWallet.Balance)
		assertDec(t, d(60), result.ToWallet.Balance)
		assert.Equal(t, models.TransactionTypeRelease, result.ReleaseTxn.Type)
		assert.Equal(t, models.TransactionTypeEarning, result.EarningTxn.Type)
		assert.Equal(t, result.ReleaseTxn.Reference, result.EarningTxn.Reference)
	})

	t.Run("insufficient pending rolls back both wallets", func(t *testing.T) {
		svc, repo, buyerWallet, workerWallet := setup(t)
		ctx := context.Background()
		txnsBefore := len(repo.txns)

		_, err := svc.ReleaseAndDisburse(ctx, DisbursementRequest{
			FromWalletID: buyerWallet.ID,
			ToWalletID:   workerWallet.ID,
			Amount:       d(90),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Insufficient pending balance")

		worker, getErr := svc.GetWallet(ctx, workerWallet.ID)
		require.NoError(t, getErr)
		assertDec(t, d(0), worker.Balance)
		assert.Len(t, repo.txns, txnsBefore)
	})

	t.Run("rejects same-wallet disbursement", func(t *testing.T) {
		svc, _, buyerWallet, _ := setup(t)

		_, err := svc.ReleaseAndDisburse(context.Background(), DisbursementRequest{
			FromWalletID: buyerWallet.ID,
			ToWalletID:   buyerWallet.ID,
			Amount:       d(10),
		})
		assert.ErrorIs(t, err, ErrSameWallet)
	})
}

func TestGetSystemWallet(t *testing.T) {
	svc, _, users := newTestService(t)
	ctx := context.Background()

	w, err := svc.GetSystemWallet(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.WalletTypeSupport, w.WalletType)

	// idempotent: same wallet, same user
	again, err := svc.GetSystemWallet(ctx)
	require.NoError(t, err)
	assert.Equal(t, w.ID, again.ID)
	assert.Len(t, users.users, 1)
}

func TestInactiveWalletRejectsAllMutations(t *testing.T) {
	svc, _, users := newTestService(t)
	ctx := context.Background()
	w := seedWallet(t, svc, users)
	_, _, err := svc.AddBalance(ctx, w.ID, d(50), models.TransactionTypeDeposit, AddOptions{})
	require.NoError(t, err)

	inactive := false
	_, err = svc.UpdateWallet(ctx, w.ID, UpdateInput{IsActive: &inactive})
	require.NoError(t, err)

	_, _, err = svc.AddBalance(ctx, w.ID, d(10), models.TransactionTypeDeposit, AddOptions{})
	assert.ErrorIs(t, err, domainerrors.ErrWalletNotActive)
	_, _, err = svc.DeductBalance(ctx, w.ID, d(10), DeductOptions{})
	assert.ErrorIs(t, err, domainerrors.ErrWalletNotActive)
	_, _, err = svc.ReleasePendingBalance(ctx, w.ID, d(10), nil, nil)
	assert.ErrorIs(t, err, domainerrors.ErrWalletNotActive)
	_, _, err = svc.RefundBalance(ctx, w.ID, d(10), RefundOptions{})
	assert.ErrorIs(t, err, domainerrors.ErrWalletNotActive)
	_, _, err = svc.AdjustBalance(ctx, w.ID, AdjustmentInput{Amount: d(10)}, nil)
	assert.ErrorIs(t, err, domainerrors.ErrWalletNotActive)
}
