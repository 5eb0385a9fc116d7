package product

import "context"

type Repository interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	GetByID(ctx context.Context, id int) (*Product, error)
	GetAllApproved(ctx context.Context) ([]Product, error)
	GetAll(ctx context.Context) ([]Product, error)
	GetBySeller(ctx context.Context, sellerID int) ([]Product, error)
	UpdateStatus(ctx context.Context, id int, status string) (*Product, error)
	PromoteToAuction(ctx context.Context, id int, initialBidPriceCents int64) (*Product, error)
	DecrementStock(ctx context.Context, id int) error
	RestoreStock(ctx context.Context, id int) error
}
