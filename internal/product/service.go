package product

import (
	"context"
	"errors"

	"github.com/CeliaIneza/celebstash-back/internal/logger"
	"github.com/CeliaIneza/celebstash-back/internal/metrics"
	"github.com/CeliaIneza/celebstash-back/internal/wallet"
)

var (
	ErrNotOwner            = errors.New("product does not belong to this seller")
	ErrProductNotApproved  = errors.New("product is not approved")
	ErrAlreadyAuction      = errors.New("product is already an auction")
	ErrNotPurchasable      = errors.New("auction products cannot be bought directly")
	ErrInitialBidRequired  = errors.New("auction products require a positive initial bid price")
	ErrInitialBidForbidden = errors.New("regular products cannot carry an initial bid price")
)

type Service struct {
	repo    Repository
	wallets wallet.Repository
}

func NewService(repo Repository, wallets wallet.Repository) *Service {
	return &Service{
		repo:    repo,
		wallets: wallets,
	}
}

func (s *Service) Create(ctx context.Context, sellerID int, req *CreateProductRequest) (*Product, error) {
	productType := req.ProductType
	if productType == "" {
		productType = TypeRegular
	}

	switch productType {
	case TypeAuction:
		if req.InitialBidPriceCents == nil || *req.InitialBidPriceCents <= 0 {
			return nil, ErrInitialBidRequired
		}
	case TypeRegular:
		if req.InitialBidPriceCents != nil {
			return nil, ErrInitialBidForbidden
		}
	}

	p := &Product{
		SellerID:             sellerID,
		Name:                 req.Name,
		Description:          req.Description,
		PriceCents:           req.PriceCents,
		ImageURL:             req.ImageURL,
		StockQuantity:        req.StockQuantity,
		ProductType:          productType,
		InitialBidPriceCents: req.InitialBidPriceCents,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	logger.Info("product created", "product_id", created.ID, "seller_id", sellerID, "type", productType)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListApproved(ctx context.Context) ([]Product, error) {
	return s.repo.GetAllApproved(ctx)
}

func (s *Service) ListAll(ctx context.Context) ([]Product, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) ListBySeller(ctx context.Context, sellerID int) ([]Product, error) {
	return s.repo.GetBySeller(ctx, sellerID)
}

// Moderate approves or rejects a pending listing. Admin only; the handler
// enforces the role.
func (s *Service) Moderate(ctx context.Context, id int, status string) (*Product, error) {
	p, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	logger.Info("product moderated", "product_id", id, "status", status)
	return p, nil
}

// Promote converts an approved regular product into an auction listing.
// The auction clock does not start here; it starts on the first bid.
func (s *Service) Promote(ctx context.Context, id, sellerID int, initialBidPriceCents int64) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.SellerID != sellerID {
		return nil, ErrNotOwner
	}
	if p.Status != StatusApproved {
		return nil, ErrProductNotApproved
	}
	if p.ProductType == TypeAuction {
		return nil, ErrAlreadyAuction
	}

	promoted, err := s.repo.PromoteToAuction(ctx, id, initialBidPriceCents)
	if err != nil {
		return nil, err
	}

	logger.Info("product promoted to auction", "product_id", id, "initial_bid_price_cents", initialBidPriceCents)
	return promoted, nil
}

// Purchase buys one unit of a regular product at its listed price. The stock
// decrement acts as the admission gate; if the wallet debit then fails, the
// unit is put back.
func (s *Service) Purchase(ctx context.Context, userID, productID int) (*PurchaseResponse, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if p.Status != StatusApproved {
		return nil, ErrProductNotApproved
	}
	if p.ProductType == TypeAuction {
		return nil, ErrNotPurchasable
	}

	if err := s.repo.DecrementStock(ctx, productID); err != nil {
		return nil, err
	}

	tr, err := s.wallets.Deduct(ctx, userID, p.PriceCents, productID, "Purchase of "+p.Name)
	if err != nil {
		if restoreErr := s.repo.RestoreStock(ctx, productID); restoreErr != nil {
			logger.Error("failed to restore stock after failed purchase", "product_id", productID, "error", restoreErr)
		}
		return nil, err
	}

	metrics.RecordPurchase()
	logger.Info("product purchased", "product_id", productID, "user_id", userID, "amount_cents", p.PriceCents)

	return &PurchaseResponse{
		Product:       p,
		TransactionID: tr.ID,
		AmountCents:   p.PriceCents,
	}, nil
}
