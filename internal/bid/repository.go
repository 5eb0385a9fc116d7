package bid

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/CeliaIneza/celebstash-back/internal/product"
	"github.com/CeliaIneza/celebstash-back/internal/wallet"
)

var (
	ErrNotAuction     = errors.New("product is not an auction")
	ErrNotApproved    = errors.New("product is not approved for bidding")
	ErrOwnProduct     = errors.New("sellers cannot bid on their own products")
	ErrBiddingClosed  = errors.New("bidding is closed for this auction")
	ErrBidTooLow      = errors.New("bid is below the minimum acceptable amount")
	ErrBidConflict    = errors.New("another bid is in flight for this auction")
	ErrAlreadySettled = errors.New("auction is already settled")

	// ErrLeaderHoldMissing means the listing names a leader but no pending
	// hold matches their winning price. Settling anyway would refund the
	// winner, so the listing is left unsettled for manual reconciliation.
	ErrLeaderHoldMissing = errors.New("no pending hold matches the leading bid")
)

// lockNotAvailable is raised by FOR UPDATE NOWAIT when another bid holds the
// listing row.
const lockNotAvailable = pq.ErrorCode("55P03")

const listingColumns = `id, seller_id, name, description, price_cents, image_url, stock_quantity,
	status, product_type, initial_bid_price_cents, current_bid_price_cents, current_bidder_id,
	bid_start_time, bid_end_time, bid_settled_at, created_at, updated_at, approved_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// minNextBid returns the smallest acceptable bid for the listing's current
// state: the initial price before any bid, one increment above the leader
// afterwards.
func minNextBid(p *product.Product) (int64, error) {
	if p.CurrentBidPriceCents != nil {
		return *p.CurrentBidPriceCents + MinIncrementCents, nil
	}
	if p.InitialBidPriceCents != nil {
		return *p.InitialBidPriceCents, nil
	}
	return 0, ErrNotAuction
}

// validateBid checks a bid against the listing. It runs twice per bid: once
// in the service as a cheap pre-check, and again in PlaceBid under the row
// lock, where its verdict is authoritative.
func validateBid(p *product.Product, userID int, amountCents int64, now time.Time) error {
	if p.ProductType != product.TypeAuction {
		return ErrNotAuction
	}
	if p.Status != product.StatusApproved {
		return ErrNotApproved
	}
	if p.SellerID == userID {
		return ErrOwnProduct
	}
	if p.Settled() {
		return ErrBiddingClosed
	}
	if p.BidEndTime != nil && !now.Before(*p.BidEndTime) {
		return ErrBiddingClosed
	}

	min, err := minNextBid(p)
	if err != nil {
		return err
	}
	if amountCents < min {
		return ErrBidTooLow
	}

	return nil
}

// PlaceBid is the bid critical section. The listing row is taken with
// FOR UPDATE NOWAIT so concurrent bids on the same auction fail fast instead
// of queueing; the wallet reservation and the listing update then commit as
// one transaction. Lock order is always listing first, wallet second.
func (r *repository) PlaceBid(ctx context.Context, userID, productID int, amountCents int64) (*product.Product, *wallet.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var p product.Product
	err = tx.QueryRowxContext(ctx,
		`SELECT `+listingColumns+` FROM products WHERE id = $1 FOR UPDATE NOWAIT`,
		productID,
	).StructScan(&p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, product.ErrProductNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == lockNotAvailable {
			return nil, nil, ErrBidConflict
		}
		return nil, nil, err
	}

	now := time.Now()
	if err := validateBid(&p, userID, amountCents, now); err != nil {
		return nil, nil, err
	}

	tr, err := wallet.ReserveInTx(ctx, tx, userID, amountCents, productID, "Bid on "+p.Name)
	if err != nil {
		return nil, nil, err
	}

	// The first bid starts the auction clock; later bids only move the price.
	endTime := now.Add(AuctionDuration)

	var updated product.Product
	err = tx.QueryRowxContext(ctx,
		`UPDATE products
		 SET current_bid_price_cents = $1,
		     current_bidder_id = $2,
		     bid_start_time = COALESCE(bid_start_time, $3),
		     bid_end_time = COALESCE(bid_end_time, $4),
		     updated_at = NOW()
		 WHERE id = $5
		 RETURNING `+listingColumns,
		amountCents, userID, now, endTime, productID,
	).StructScan(&updated)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return &updated, tr, nil
}

func (r *repository) ListAuctions(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	err := r.db.SelectContext(ctx, &products,
		`SELECT `+listingColumns+`
		 FROM products
		 WHERE product_type = 'auction' AND status = 'approved'
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}

	return products, nil
}

// LatestHoldForUser returns the caller's most recent pending hold on the
// listing, or nil when they have none.
func (r *repository) LatestHoldForUser(ctx context.Context, productID, userID int) (*wallet.Transaction, error) {
	var t wallet.Transaction
	err := r.db.GetContext(ctx, &t,
		`SELECT t.id, t.wallet_id, t.product_id, t.amount_cents, t.type, t.status, t.description, t.balance_after, t.created_at, t.completed_at
		 FROM wallet_transactions t
		 JOIN wallets w ON w.id = t.wallet_id
		 WHERE t.product_id = $1 AND w.user_id = $2 AND t.type = 'bid_hold' AND t.status = 'pending'
		 ORDER BY t.created_at DESC
		 LIMIT 1`,
		productID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// FindExpiredUnsettled lists auctions whose window has closed and that the
// sweeper has not finalized yet. Backed by the partial index on unsettled
// auctions.
func (r *repository) FindExpiredUnsettled(ctx context.Context) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids,
		`SELECT id
		 FROM products
		 WHERE product_type = 'auction'
		   AND bid_settled_at IS NULL
		   AND bid_end_time IS NOT NULL
		   AND bid_end_time <= NOW()
		 ORDER BY bid_end_time ASC`)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

type holdRow struct {
	ID          int   `db:"id"`
	AmountCents int64 `db:"amount_cents"`
	UserID      int   `db:"user_id"`
}

// SettleListing finalizes one auction in a single transaction: the leading
// hold is completed, every other pending hold is refunded, and the listing is
// stamped settled. bid_settled_at is the only idempotency gate; a listing
// found already stamped returns ErrAlreadySettled untouched.
func (r *repository) SettleListing(ctx context.Context, productID int) (*SettlementResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var p product.Product
	err = tx.QueryRowxContext(ctx,
		`SELECT `+listingColumns+` FROM products WHERE id = $1 FOR UPDATE`,
		productID,
	).StructScan(&p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, product.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.ProductType != product.TypeAuction {
		return nil, ErrNotAuction
	}
	if p.Settled() {
		return nil, ErrAlreadySettled
	}

	var holds []holdRow
	err = tx.SelectContext(ctx, &holds,
		`SELECT t.id, t.amount_cents, w.user_id
		 FROM wallet_transactions t
		 JOIN wallets w ON w.id = t.wallet_id
		 WHERE t.product_id = $1 AND t.type = 'bid_hold' AND t.status = 'pending'
		 ORDER BY t.created_at ASC`,
		productID)
	if err != nil {
		return nil, err
	}

	result := &SettlementResult{
		ProductID:   p.ID,
		ProductName: p.Name,
		HadBids:     p.CurrentBidderID != nil,
	}

	// The winning hold is the leader's hold at the final price. A bidder who
	// outbid themselves has older holds too; those are refunded like anyone
	// else's.
	winnerIdx := -1
	if p.CurrentBidderID != nil && p.CurrentBidPriceCents != nil {
		for i, h := range holds {
			if h.UserID == *p.CurrentBidderID && h.AmountCents == *p.CurrentBidPriceCents {
				winnerIdx = i
			}
		}
		if winnerIdx == -1 {
			return nil, ErrLeaderHoldMissing
		}
	}

	for i, h := range holds {
		if i == winnerIdx {
			if _, err := wallet.CompleteReservationInTx(ctx, tx, h.ID); err != nil {
				return nil, err
			}
			winnerID := h.UserID
			result.WinnerUserID = &winnerID
			result.WinningAmountCents = h.AmountCents
			continue
		}

		if _, err := wallet.RefundReservationInTx(ctx, tx, h.ID); err != nil {
			return nil, err
		}
		result.Refunds = append(result.Refunds, Refund{UserID: h.UserID, AmountCents: h.AmountCents})
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE products SET bid_settled_at = NOW(), updated_at = NOW() WHERE id = $1`,
		productID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return result, nil
}
