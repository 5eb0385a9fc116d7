package bid

import (
	"context"
	"time"

	"github.com/CeliaIneza/celebstash-back/internal/logger"
	"github.com/CeliaIneza/celebstash-back/internal/metrics"
	"github.com/CeliaIneza/celebstash-back/internal/product"
	"github.com/CeliaIneza/celebstash-back/internal/wallet"
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

// PlaceBid validates the bid against a snapshot of the listing and the
// bidder's balance, then runs the locked critical section. The snapshot
// checks only exist to reject obvious losers cheaply; the locked re-check in
// the repository decides.
func (s *Service) PlaceBid(ctx context.Context, userID, productID int, amountCents int64) (*product.Product, *wallet.Transaction, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	if err := validateBid(p, userID, amountCents, time.Now()); err != nil {
		metrics.RecordBid("rejected")
		return nil, nil, err
	}

	ok, err := s.wallets.HasSufficientBalance(ctx, userID, amountCents)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		metrics.RecordBid("rejected")
		return nil, nil, wallet.ErrInsufficientFunds
	}

	updated, tr, err := s.repo.PlaceBid(ctx, userID, productID, amountCents)
	if err != nil {
		switch err {
		case ErrBidConflict:
			metrics.RecordBid("conflict")
		default:
			metrics.RecordBid("rejected")
		}
		return nil, nil, err
	}

	metrics.RecordBid("accepted")
	logger.Info("bid placed",
		"product_id", productID, "user_id", userID, "amount_cents", amountCents, "transaction_id", tr.ID)

	return updated, tr, nil
}

// GetBidDetails builds the auction view of a listing. When userID is
// non-zero the view also carries the caller's pending hold and whether they
// won an ended auction.
func (s *Service) GetBidDetails(ctx context.Context, productID, userID int) (*BidView, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if p.ProductType != product.TypeAuction {
		return nil, ErrNotAuction
	}

	now := time.Now()
	view := buildView(p, now)

	if userID != 0 {
		// The leader becomes the winner as soon as the window closes, not
		// when the sweeper gets around to settling.
		ended := p.BidEndTime != nil && !now.Before(*p.BidEndTime)
		if ended && p.CurrentBidderID != nil && *p.CurrentBidderID == userID {
			view.IsWinner = true
		}
		hold, err := s.repo.LatestHoldForUser(ctx, productID, userID)
		if err != nil {
			return nil, err
		}
		if hold != nil {
			view.TransactionID = &hold.ID
		}
	}

	return view, nil
}

func (s *Service) ListAuctions(ctx context.Context) ([]BidView, error) {
	products, err := s.repo.ListAuctions(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]BidView, 0, len(products))
	for i := range products {
		views = append(views, *buildView(&products[i], now))
	}

	return views, nil
}

func buildView(p *product.Product, now time.Time) *BidView {
	view := &BidView{
		ProductID:            p.ID,
		ProductName:          p.Name,
		InitialBidPriceCents: p.InitialBidPriceCents,
		CurrentBidPriceCents: p.CurrentBidPriceCents,
		CurrentBidderID:      p.CurrentBidderID,
		BidStartTime:         p.BidStartTime,
		BidEndTime:           p.BidEndTime,
		Settled:              p.Settled(),
	}

	if min, err := minNextBid(p); err == nil {
		view.MinNextBidCents = min
	}

	switch {
	case p.BidStartTime == nil:
		view.BidStatus = StatusNotStarted
	case p.Settled() || (p.BidEndTime != nil && !now.Before(*p.BidEndTime)):
		view.BidStatus = StatusExpired
	default:
		view.BidStatus = StatusActive
	}
	view.IsActive = view.BidStatus == StatusActive

	return view
}
