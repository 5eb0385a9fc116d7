package cart

import "time"

type CartItem struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	ProductID int       `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Joined from products for list views.
	ProductName   string `db:"product_name" json:"product_name,omitempty"`
	PriceCents    int64  `db:"price_cents" json:"price_cents,omitempty"`
	ImageURL      string `db:"image_url" json:"image_url,omitempty"`
	ProductType   string `db:"product_type" json:"product_type,omitempty"`
	SubtotalCents int64  `db:"subtotal_cents" json:"subtotal_cents,omitempty"`
}

type AddItemRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartResponse struct {
	Items      []CartItem `json:"items"`
	TotalCents int64      `json:"total_cents"`
}

type CheckoutItem struct {
	ProductID     int   `json:"product_id"`
	Quantity      int   `json:"quantity"`
	AmountCents   int64 `json:"amount_cents"`
	TransactionID int   `json:"transaction_id"`
}

type CheckoutResponse struct {
	Items      []CheckoutItem `json:"items"`
	TotalCents int64          `json:"total_cents"`
}
