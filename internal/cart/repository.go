package cart

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrItemNotFound = errors.New("cart item not found")

const itemColumns = `id, user_id, product_id, quantity, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// AddItem inserts the product into the cart, bumping the quantity if it is
// already there.
func (r *repository) AddItem(ctx context.Context, userID, productID, quantity int) (*CartItem, error) {
	var item CartItem
	err := r.db.GetContext(ctx, &item, `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING `+itemColumns,
		userID, productID, quantity)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) GetItems(ctx context.Context, userID int) ([]CartItem, error) {
	var items []CartItem
	err := r.db.SelectContext(ctx, &items, `
		SELECT c.id, c.user_id, c.product_id, c.quantity, c.created_at, c.updated_at,
		       p.name AS product_name, p.price_cents, p.image_url, p.product_type,
		       p.price_cents * c.quantity AS subtotal_cents
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) UpdateQuantity(ctx context.Context, userID, productID, quantity int) (*CartItem, error) {
	var item CartItem
	err := r.db.GetContext(ctx, &item, `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND product_id = $3
		RETURNING `+itemColumns,
		quantity, userID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) RemoveItem(ctx context.Context, userID, productID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *repository) Clear(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
