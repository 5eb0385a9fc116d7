package product

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	TypeRegular = "regular"
	TypeAuction = "auction"
)

type Product struct {
	ID            int    `db:"id" json:"id"`
	SellerID      int    `db:"seller_id" json:"seller_id"`
	Name          string `db:"name" json:"name"`
	Description   string `db:"description" json:"description"`
	PriceCents    int64  `db:"price_cents" json:"price_cents"`
	ImageURL      string `db:"image_url" json:"image_url"`
	StockQuantity int    `db:"stock_quantity" json:"stock_quantity"`
	Status        string `db:"status" json:"status"`
	ProductType   string `db:"product_type" json:"product_type"`

	// Auction fields, null until the product is promoted / receives bids.
	InitialBidPriceCents *int64     `db:"initial_bid_price_cents" json:"initial_bid_price_cents,omitempty"`
	CurrentBidPriceCents *int64     `db:"current_bid_price_cents" json:"current_bid_price_cents,omitempty"`
	CurrentBidderID      *int       `db:"current_bidder_id" json:"current_bidder_id,omitempty"`
	BidStartTime         *time.Time `db:"bid_start_time" json:"bid_start_time,omitempty"`
	BidEndTime           *time.Time `db:"bid_end_time" json:"bid_end_time,omitempty"`
	BidSettledAt         *time.Time `db:"bid_settled_at" json:"bid_settled_at,omitempty"`

	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
	ApprovedAt *time.Time `db:"approved_at" json:"approved_at,omitempty"`
}

// Settled reports whether the auction has been finalized by the sweeper.
func (p *Product) Settled() bool {
	return p.BidSettledAt != nil
}

type CreateProductRequest struct {
	Name                 string `json:"name" binding:"required,notblank"`
	Description          string `json:"description"`
	PriceCents           int64  `json:"price_cents" binding:"required,min=0"`
	ImageURL             string `json:"image_url"`
	StockQuantity        int    `json:"stock_quantity" binding:"min=0"`
	ProductType          string `json:"product_type" binding:"omitempty,oneof=regular auction"`
	InitialBidPriceCents *int64 `json:"initial_bid_price_cents,omitempty"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

type PromoteRequest struct {
	InitialBidPriceCents int64 `json:"initial_bid_price_cents" binding:"required,min=1"`
}

type PurchaseResponse struct {
	Product       *Product `json:"product"`
	TransactionID int      `json:"transaction_id"`
	AmountCents   int64    `json:"amount_cents"`
}
