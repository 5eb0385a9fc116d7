package product

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product is out of stock")
)

const productColumns = `id, seller_id, name, description, price_cents, image_url, stock_quantity,
	status, product_type, initial_bid_price_cents, current_bid_price_cents, current_bidder_id,
	bid_start_time, bid_end_time, bid_settled_at, created_at, updated_at, approved_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Product) (*Product, error) {
	query := `
		INSERT INTO products (seller_id, name, description, price_cents, image_url, stock_quantity, product_type, initial_bid_price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + productColumns

	var created Product
	err := r.db.GetContext(ctx, &created, query,
		p.SellerID, p.Name, p.Description, p.PriceCents, p.ImageURL, p.StockQuantity, p.ProductType, p.InitialBidPriceCents)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetAllApproved(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE status = 'approved' ORDER BY created_at DESC`

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *repository) GetBySeller(ctx context.Context, sellerID int) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE seller_id = $1 ORDER BY created_at DESC`

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query, sellerID); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status string) (*Product, error) {
	query := `
		UPDATE products
		SET status = $1,
		    approved_at = CASE WHEN $1 = 'approved' THEN NOW() ELSE approved_at END,
		    updated_at = NOW()
		WHERE id = $2
		RETURNING ` + productColumns

	var p Product
	err := r.db.GetContext(ctx, &p, query, status, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) PromoteToAuction(ctx context.Context, id int, initialBidPriceCents int64) (*Product, error) {
	query := `
		UPDATE products
		SET product_type = 'auction', initial_bid_price_cents = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + productColumns

	var p Product
	err := r.db.GetContext(ctx, &p, query, initialBidPriceCents, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) DecrementStock(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock_quantity = stock_quantity - 1, updated_at = NOW()
		 WHERE id = $1 AND stock_quantity > 0`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrOutOfStock
	}

	return nil
}

func (r *repository) RestoreStock(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock_quantity = stock_quantity + 1, updated_at = NOW() WHERE id = $1`, id)
	return err
}
