package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientFunds       = errors.New("insufficient wallet balance")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrInvalidTransactionState = errors.New("transaction is not a pending bid hold")
)

const walletColumns = `id, user_id, balance_cents, currency, created_at, updated_at`

const transactionColumns = `id, wallet_id, product_id, amount_cents, type, status, description, balance_after, created_at, completed_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w, `SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 RETURNING `+walletColumns,
		userID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}

	return w, nil
}

// HasSufficientBalance is an optimistic pre-check; the authoritative check
// happens under the row lock inside Reserve/Deduct.
func (r *repository) HasSufficientBalance(ctx context.Context, userID int, amountCents int64) (bool, error) {
	if amountCents < 0 {
		return false, ErrInvalidAmount
	}

	w, err := r.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return false, err
	}

	return w.BalanceCents >= amountCents, nil
}

func (r *repository) Deposit(ctx context.Context, userID int, amountCents int64, description string) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := DepositInTx(ctx, tx, userID, amountCents, description)
	if err != nil {
		return nil, err
	}

	return t, tx.Commit()
}

func (r *repository) Reserve(ctx context.Context, userID int, amountCents int64, productID int, description string) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := ReserveInTx(ctx, tx, userID, amountCents, productID, description)
	if err != nil {
		return nil, err
	}

	return t, tx.Commit()
}

func (r *repository) Deduct(ctx context.Context, userID int, amountCents int64, productID int, description string) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := DeductInTx(ctx, tx, userID, amountCents, productID, description)
	if err != nil {
		return nil, err
	}

	return t, tx.Commit()
}

func (r *repository) CompleteReservation(ctx context.Context, transactionID int) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := CompleteReservationInTx(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}

	return t, tx.Commit()
}

func (r *repository) RefundReservation(ctx context.Context, transactionID int) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := RefundReservationInTx(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}

	return t, tx.Commit()
}

func (r *repository) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var walletID int
	err := r.db.GetContext(ctx, &walletID, `SELECT id FROM wallets WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Transaction{}, nil
		}
		return nil, err
	}

	var txs []Transaction
	err = r.db.SelectContext(ctx, &txs, `
		SELECT `+transactionColumns+`
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}

// lockWalletByUser loads the user's wallet under FOR UPDATE, creating it on
// first access. All balance changes for a wallet serialize on this lock.
func lockWalletByUser(ctx context.Context, tx *sqlx.Tx, userID int) (*Wallet, error) {
	var w Wallet
	err := tx.QueryRowxContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 FOR UPDATE`,
		userID,
	).StructScan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowxContext(ctx,
			`INSERT INTO wallets (user_id)
			 VALUES ($1)
			 RETURNING `+walletColumns,
			userID,
		).StructScan(&w)
	}
	if err != nil {
		return nil, err
	}

	return &w, nil
}

func lockWalletByID(ctx context.Context, tx *sqlx.Tx, walletID int) (*Wallet, error) {
	var w Wallet
	err := tx.QueryRowxContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE id = $1 FOR UPDATE`,
		walletID,
	).StructScan(&w)
	if err != nil {
		return nil, err
	}

	return &w, nil
}

func setBalance(ctx context.Context, tx *sqlx.Tx, walletID int, balanceCents int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance_cents = $1, updated_at = NOW() WHERE id = $2`,
		balanceCents, walletID,
	)
	return err
}

func insertTransaction(ctx context.Context, tx *sqlx.Tx, t *Transaction) (*Transaction, error) {
	var inserted Transaction
	err := tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (wallet_id, product_id, amount_cents, type, status, description, balance_after, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, CASE WHEN $5 IN ('completed', 'refunded') THEN NOW() ELSE NULL END)
		 RETURNING `+transactionColumns,
		t.WalletID, t.ProductID, t.AmountCents, t.Type, t.Status, t.Description, t.BalanceAfter,
	).StructScan(&inserted)
	if err != nil {
		return nil, err
	}

	return &inserted, nil
}

// DepositInTx credits the wallet inside the caller's transaction.
func DepositInTx(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, description string) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	w, err := lockWalletByUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	newBalance := w.BalanceCents + amountCents
	if err := setBalance(ctx, tx, w.ID, newBalance); err != nil {
		return nil, err
	}

	return insertTransaction(ctx, tx, &Transaction{
		WalletID:     w.ID,
		AmountCents:  amountCents,
		Type:         TypeDeposit,
		Status:       StatusCompleted,
		Description:  description,
		BalanceAfter: newBalance,
	})
}

// ReserveInTx debits the wallet and records a pending bid hold. The debit and
// the hold commit together with whatever else the caller does in the same
// transaction, which is how a bid's listing update and reservation stay atomic.
func ReserveInTx(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, productID int, description string) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	w, err := lockWalletByUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	newBalance := w.BalanceCents - amountCents
	if newBalance < 0 {
		return nil, ErrInsufficientFunds
	}

	if err := setBalance(ctx, tx, w.ID, newBalance); err != nil {
		return nil, err
	}

	return insertTransaction(ctx, tx, &Transaction{
		WalletID:     w.ID,
		ProductID:    &productID,
		AmountCents:  amountCents,
		Type:         TypeBidHold,
		Status:       StatusPending,
		Description:  description,
		BalanceAfter: newBalance,
	})
}

// DeductInTx is the immediate-purchase variant of ReserveInTx: same debit,
// but the entry is born completed.
func DeductInTx(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, productID int, description string) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	w, err := lockWalletByUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	newBalance := w.BalanceCents - amountCents
	if newBalance < 0 {
		return nil, ErrInsufficientFunds
	}

	if err := setBalance(ctx, tx, w.ID, newBalance); err != nil {
		return nil, err
	}

	return insertTransaction(ctx, tx, &Transaction{
		WalletID:     w.ID,
		ProductID:    &productID,
		AmountCents:  amountCents,
		Type:         TypePurchase,
		Status:       StatusCompleted,
		Description:  description,
		BalanceAfter: newBalance,
	})
}

func lockTransaction(ctx context.Context, tx *sqlx.Tx, transactionID int) (*Transaction, error) {
	var t Transaction
	err := tx.QueryRowxContext(ctx,
		`SELECT `+transactionColumns+` FROM wallet_transactions WHERE id = $1 FOR UPDATE`,
		transactionID,
	).StructScan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CompleteReservationInTx finalizes a winning hold. The funds were already
// debited at reserve time, so the balance does not move again.
func CompleteReservationInTx(ctx context.Context, tx *sqlx.Tx, transactionID int) (*Transaction, error) {
	t, err := lockTransaction(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}

	if !validTransition(t, StatusCompleted) {
		return nil, ErrInvalidTransactionState
	}

	var updated Transaction
	err = tx.QueryRowxContext(ctx,
		`UPDATE wallet_transactions SET status = 'completed', completed_at = NOW()
		 WHERE id = $1
		 RETURNING `+transactionColumns,
		transactionID,
	).StructScan(&updated)
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// RefundReservationInTx marks a losing hold refunded and credits the wallet
// through a new completed bid_refund entry.
func RefundReservationInTx(ctx context.Context, tx *sqlx.Tx, transactionID int) (*Transaction, error) {
	t, err := lockTransaction(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}

	if !validTransition(t, StatusRefunded) {
		return nil, ErrInvalidTransactionState
	}

	w, err := lockWalletByID(ctx, tx, t.WalletID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallet_transactions SET status = 'refunded', completed_at = NOW() WHERE id = $1`,
		transactionID,
	)
	if err != nil {
		return nil, err
	}

	newBalance := w.BalanceCents + t.AmountCents
	if err := setBalance(ctx, tx, w.ID, newBalance); err != nil {
		return nil, err
	}

	return insertTransaction(ctx, tx, &Transaction{
		WalletID:     w.ID,
		ProductID:    t.ProductID,
		AmountCents:  t.AmountCents,
		Type:         TypeBidRefund,
		Status:       StatusCompleted,
		Description:  "Refund for " + t.Description,
		BalanceAfter: newBalance,
	})
}
