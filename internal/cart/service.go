package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/CeliaIneza/celebstash-back/internal/logger"
	"github.com/CeliaIneza/celebstash-back/internal/metrics"
	"github.com/CeliaIneza/celebstash-back/internal/product"
	"github.com/CeliaIneza/celebstash-back/internal/wallet"
)

var (
	ErrAuctionNotCartable = errors.New("auction products cannot be added to a cart")
	ErrCartEmpty          = errors.New("cart is empty")
)

type Service struct {
	repo     Repository
	products product.Repository
	wallets  wallet.Repository
}

func NewService(repo Repository, products product.Repository, wallets wallet.Repository) *Service {
	return &Service{
		repo:     repo,
		products: products,
		wallets:  wallets,
	}
}

// AddItem puts an approved regular product in the user's cart. Auctions go
// through bidding, never the cart.
func (s *Service) AddItem(ctx context.Context, userID, productID, quantity int) (*CartItem, error) {
	if quantity <= 0 {
		quantity = 1
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Status != product.StatusApproved {
		return nil, product.ErrProductNotFound
	}
	if p.ProductType == product.TypeAuction {
		return nil, ErrAuctionNotCartable
	}

	return s.repo.AddItem(ctx, userID, productID, quantity)
}

func (s *Service) GetCart(ctx context.Context, userID int) (*CartResponse, error) {
	items, err := s.repo.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, item := range items {
		total += item.SubtotalCents
	}

	return &CartResponse{Items: items, TotalCents: total}, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, productID, quantity int) (*CartItem, error) {
	return s.repo.UpdateQuantity(ctx, userID, productID, quantity)
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID int) error {
	return s.repo.RemoveItem(ctx, userID, productID)
}

func (s *Service) Clear(ctx context.Context, userID int) error {
	return s.repo.Clear(ctx, userID)
}

// Checkout purchases the cart item by item: one completed wallet transaction
// per line. Each purchased line leaves the cart as soon as its debit commits,
// so a failure partway through keeps what was already bought and reports the
// line that stopped it.
func (s *Service) Checkout(ctx context.Context, userID int) (*CheckoutResponse, error) {
	items, err := s.repo.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	resp := &CheckoutResponse{}
	for _, item := range items {
		taken := 0
		for ; taken < item.Quantity; taken++ {
			if err := s.products.DecrementStock(ctx, item.ProductID); err != nil {
				s.restoreUnits(ctx, item.ProductID, taken)
				return resp, fmt.Errorf("product %d: %w", item.ProductID, err)
			}
		}

		tr, err := s.wallets.Deduct(ctx, userID, item.SubtotalCents, item.ProductID, "Purchase of "+item.ProductName)
		if err != nil {
			s.restoreUnits(ctx, item.ProductID, taken)
			return resp, fmt.Errorf("product %d: %w", item.ProductID, err)
		}

		if err := s.repo.RemoveItem(ctx, userID, item.ProductID); err != nil {
			logger.Error("failed to remove purchased item from cart", "user_id", userID, "product_id", item.ProductID, "error", err)
		}

		metrics.RecordPurchase()
		resp.Items = append(resp.Items, CheckoutItem{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			AmountCents:   item.SubtotalCents,
			TransactionID: tr.ID,
		})
		resp.TotalCents += item.SubtotalCents
	}

	logger.Info("cart checked out", "user_id", userID, "items", len(resp.Items), "total_cents", resp.TotalCents)
	return resp, nil
}

func (s *Service) restoreUnits(ctx context.Context, productID, units int) {
	for i := 0; i < units; i++ {
		if err := s.products.RestoreStock(ctx, productID); err != nil {
			logger.Error("failed to restore stock during checkout rollback", "product_id", productID, "error", err)
			return
		}
	}
}
