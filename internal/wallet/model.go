package wallet

import "time"

const (
	TypeDeposit   = "deposit"
	TypePurchase  = "purchase"
	TypeBidHold   = "bid_hold"
	TypeBidRefund = "bid_refund"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusRefunded  = "refunded"
)

type Wallet struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"user_id"`
	BalanceCents int64     `db:"balance_cents" json:"balance_cents"`
	Currency     string    `db:"currency" json:"currency"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction is an append-only ledger entry. The wallet balance is adjusted
// in the same database transaction that inserts the entry, so the balance is
// always derivable by replaying entries from zero.
//
// Only bid holds start out pending; deposits, purchases and refunds are born
// completed. A pending hold either completes (winner) or is refunded (loser),
// and a refund credits the wallet through a fresh bid_refund entry instead of
// mutating the original debit.
type Transaction struct {
	ID           int        `db:"id" json:"id"`
	WalletID     int        `db:"wallet_id" json:"wallet_id"`
	ProductID    *int       `db:"product_id" json:"product_id,omitempty"`
	AmountCents  int64      `db:"amount_cents" json:"amount_cents"`
	Type         string     `db:"type" json:"type"`
	Status       string     `db:"status" json:"status"`
	Description  string     `db:"description" json:"description"`
	BalanceAfter int64      `db:"balance_after" json:"balance_after"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	CompletedAt  *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// validTransition is the single place that encodes the transaction state
// machine: pending bid_hold -> {completed, refunded}; nothing else moves.
func validTransition(t *Transaction, target string) bool {
	if t.Type != TypeBidHold || t.Status != StatusPending {
		return false
	}
	return target == StatusCompleted || target == StatusRefunded
}

type TopUpRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,min=1"`
	Description string `json:"description"`
}
