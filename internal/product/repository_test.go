package product

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProductMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "seller_id", "name", "description", "price_cents", "image_url", "stock_quantity",
		"status", "product_type", "initial_bid_price_cents", "current_bid_price_cents", "current_bidder_id",
		"bid_start_time", "bid_end_time", "bid_settled_at", "created_at", "updated_at", "approved_at",
	})
}

func TestRepositoryGetByID(t *testing.T) {
	repo, mock, close := setupProductMock(t)
	defer close()

	mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1`).
		WithArgs(5).
		WillReturnRows(productRows().AddRow(
			5, 1, "Hoodie", "Warm hoodie", 5000, "", 3,
			StatusApproved, TypeRegular, nil, nil, nil,
			nil, nil, nil, time.Now(), time.Now(), time.Now()))

	p, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Hoodie", p.Name)
	assert.Equal(t, int64(5000), p.PriceCents)
	assert.False(t, p.Settled())
}

func TestRepositoryGetByID_NotFound(t *testing.T) {
	repo, mock, close := setupProductMock(t)
	defer close()

	mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRepositoryUpdateStatus_NotFound(t *testing.T) {
	repo, mock, close := setupProductMock(t)
	defer close()

	mock.ExpectQuery(`UPDATE products`).
		WithArgs(StatusApproved, 99).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateStatus(context.Background(), 99, StatusApproved)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRepositoryDecrementStock_GuardsAgainstZero(t *testing.T) {
	repo, mock, close := setupProductMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock_quantity = stock_quantity - 1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DecrementStock(context.Background(), 5)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestRepositoryDecrementStock_Success(t *testing.T) {
	repo, mock, close := setupProductMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock_quantity = stock_quantity - 1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DecrementStock(context.Background(), 5)
	assert.NoError(t, err)
}

func TestRepositoryPromoteToAuction(t *testing.T) {
	repo, mock, close := setupProductMock(t)
	defer close()

	initial := int64(1000)
	mock.ExpectQuery(`UPDATE products`).
		WithArgs(initial, 5).
		WillReturnRows(productRows().AddRow(
			5, 1, "Hoodie", "Warm hoodie", 5000, "", 3,
			StatusApproved, TypeAuction, initial, nil, nil,
			nil, nil, nil, time.Now(), time.Now(), time.Now()))

	p, err := repo.PromoteToAuction(context.Background(), 5, initial)
	require.NoError(t, err)
	assert.Equal(t, TypeAuction, p.ProductType)
	require.NotNil(t, p.InitialBidPriceCents)
	assert.Equal(t, initial, *p.InitialBidPriceCents)
}
