package bid

import (
	"context"

	"github.com/CeliaIneza/celebstash-back/internal/product"
	"github.com/CeliaIneza/celebstash-back/internal/wallet"
)

type Repository interface {
	PlaceBid(ctx context.Context, userID, productID int, amountCents int64) (*product.Product, *wallet.Transaction, error)
	ListAuctions(ctx context.Context) ([]product.Product, error)
	LatestHoldForUser(ctx context.Context, productID, userID int) (*wallet.Transaction, error)
	FindExpiredUnsettled(ctx context.Context) ([]int, error)
	SettleListing(ctx context.Context, productID int) (*SettlementResult, error)
}
