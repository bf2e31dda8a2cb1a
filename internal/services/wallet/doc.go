/*
Package wallet implements the storefront's financial ledger.

Every wallet holds three counters: Balance (spendable), PendingBalance
(held against in-flight orders) and Deposit (worker capital, tracked
separately from Balance). The service exposes the only mutation path for
those counters:

	svc := wallet.NewService(repo, users, cache, publisher, cfg, log, metrics)

	w, err := svc.GetOrCreateWallet(ctx, userID, models.WalletTypeCustomer)

	// credit spendable balance
	w, txn, err := svc.AddBalance(ctx, w.ID, amount, models.TransactionTypeDeposit, wallet.AddOptions{})

	// charge an order, holding the funds until completion
	w, txn, err = svc.DeductBalance(ctx, w.ID, amount, wallet.DeductOptions{
		OrderID:       &orderID,
		LockAsPending: true,
	})

	// finalize the hold once the order is delivered
	w, txn, err = svc.ReleasePendingBalance(ctx, w.ID, amount, &orderID, &actorID)

Each mutation runs in a single database transaction that re-reads the wallet
row with a row-level lock, checks the operation's precondition, writes the
updated counters and appends exactly one WalletTransaction audit row with
before/after snapshots. Precondition violations (inactive wallet,
insufficient balance, insufficient pending balance, adjustment below zero)
surface as *errors.DomainError values before any write happens.

Concurrent mutations of the same wallet serialize on the row lock taken by
the transaction, so the read-check-write sequence never observes a stale
balance.
*/
package wallet
