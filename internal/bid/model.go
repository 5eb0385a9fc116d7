package bid

import "time"

// An auction runs for a fixed window starting at the first bid.
const (
	AuctionDuration   = 24 * time.Hour
	MinIncrementCents = int64(1)
)

const (
	StatusNotStarted = "NOT_STARTED"
	StatusActive     = "ACTIVE"
	StatusExpired    = "EXPIRED"
)

type PlaceBidRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,min=1"`
}

// BidView is the auction state of a listing as shown to clients.
type BidView struct {
	ProductID            int        `json:"product_id"`
	ProductName          string     `json:"product_name"`
	InitialBidPriceCents *int64     `json:"initial_bid_price_cents,omitempty"`
	CurrentBidPriceCents *int64     `json:"current_bid_price_cents,omitempty"`
	CurrentBidderID      *int       `json:"current_bidder_id,omitempty"`
	MinNextBidCents      int64      `json:"min_next_bid_cents"`
	BidStartTime         *time.Time `json:"bid_start_time,omitempty"`
	BidEndTime           *time.Time `json:"bid_end_time,omitempty"`
	BidStatus            string     `json:"bid_status"`
	IsActive             bool       `json:"is_active"`
	Settled              bool       `json:"settled"`

	// Set only when the view is built for an authenticated caller.
	IsWinner      bool `json:"is_winner,omitempty"`
	TransactionID *int `json:"transaction_id,omitempty"`
}

// Refund records a losing hold returned at settlement.
type Refund struct {
	UserID      int
	AmountCents int64
}

type SettlementResult struct {
	ProductID          int
	ProductName        string
	WinnerUserID       *int
	WinningAmountCents int64
	Refunds            []Refund
	HadBids            bool
}
