package cart

import "context"

type Repository interface {
	AddItem(ctx context.Context, userID, productID, quantity int) (*CartItem, error)
	GetItems(ctx context.Context, userID int) ([]CartItem, error)
	UpdateQuantity(ctx context.Context, userID, productID, quantity int) (*CartItem, error)
	RemoveItem(ctx context.Context, userID, productID int) error
	Clear(ctx context.Context, userID int) error
}
