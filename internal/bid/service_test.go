package bid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/CeliaIneza/celebstash-back/internal/logger"
	"github.com/CeliaIneza/celebstash-back/internal/product"
	"github.com/CeliaIneza/celebstash-back/internal/user"
	"github.com/CeliaIneza/celebstash-back/internal/wallet"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

type MockBidRepository struct {
	mock.Mock
}

func (m *MockBidRepository) PlaceBid(ctx context.Context, userID, productID int, amountCents int64) (*product.Product, *wallet.Transaction, error) {
	args := m.Called(ctx, userID, productID, amountCents)
	var p *product.Product
	if args.Get(0) != nil {
		p = args.Get(0).(*product.Product)
	}
	var t *wallet.Transaction
	if args.Get(1) != nil {
		t = args.Get(1).(*wallet.Transaction)
	}
	return p, t, args.Error(2)
}

func (m *MockBidRepository) ListAuctions(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockBidRepository) LatestHoldForUser(ctx context.Context, productID, userID int) (*wallet.Transaction, error) {
	args := m.Called(ctx, productID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transaction), args.Error(1)
}

func (m *MockBidRepository) FindExpiredUnsettled(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockBidRepository) SettleListing(ctx context.Context, productID int) (*SettlementResult, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SettlementResult), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *product.Product) (*product.Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetAllApproved(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySeller(ctx context.Context, sellerID int) ([]product.Product, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateStatus(ctx context.Context, id int, status string) (*product.Product, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) PromoteToAuction(ctx context.Context, id int, initialBidPriceCents int64) (*product.Product, error) {
	args := m.Called(ctx, id, initialBidPriceCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) RestoreStock(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetOrCreateWallet(ctx context.Context, userID int) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) HasSufficientBalance(ctx context.Context, userID int, amountCents int64) (bool, error) {
	args := m.Called(ctx, userID, amountCents)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletRepository) Deposit(ctx context.Context, userID int, amountCents int64, description string) (*wallet.Transaction, error) {
	args := m.Called(ctx, userID, amountCents, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transaction), args.Error(1)
}

func (m *MockWalletRepository) Reserve(ctx context.Context, userID int, amountCents int64, productID int, description string) (*wallet.Transaction, error) {
	args := m.Called(ctx, userID, amountCents, productID, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transaction), args.Error(1)
}

func (m *MockWalletRepository) Deduct(ctx context.Context, userID int, amountCents int64, productID int, description string) (*wallet.Transaction, error) {
	args := m.Called(ctx, userID, amountCents, productID, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transaction), args.Error(1)
}

func (m *MockWalletRepository) CompleteReservation(ctx context.Context, transactionID int) (*wallet.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transaction), args.Error(1)
}

func (m *MockWalletRepository) RefundReservation(ctx context.Context, transactionID int) (*wallet.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transaction), args.Error(1)
}

func (m *MockWalletRepository) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]wallet.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wallet.Transaction), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendAuctionWon(ctx context.Context, email, name, productName string, amountCents int64) error {
	args := m.Called(ctx, email, name, productName, amountCents)
	return args.Error(0)
}

func (m *MockMailer) SendAuctionLost(ctx context.Context, email, name, productName string, amountCents int64) error {
	args := m.Called(ctx, email, name, productName, amountCents)
	return args.Error(0)
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
func timePtr(t time.Time) *time.Time {
	return &t
}

func auctionProduct() *product.Product {
	return &product.Product{
		ID:                   5,
		SellerID:             1,
		Name:                 "Signed Jersey",
		Status:               product.StatusApproved,
		ProductType:          product.TypeAuction,
		InitialBidPriceCents: int64Ptr(1000),
	}
}

func TestValidateBid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		mutate  func(p *product.Product)
		userID  int
		amount  int64
		wantErr error
	}{
		{"first bid at initial price", func(p *product.Product) {}, 2, 1000, nil},
		{"first bid below initial price", func(p *product.Product) {}, 2, 999, ErrBidTooLow},
		{
			"bid must beat the leader",
			func(p *product.Product) {
				p.CurrentBidPriceCents = int64Ptr(2000)
				p.CurrentBidderID = intPtr(3)
			},
			2, 2000, ErrBidTooLow,
		},
		{
			"one cent above the leader is enough",
			func(p *product.Product) {
				p.CurrentBidPriceCents = int64Ptr(2000)
				p.CurrentBidderID = intPtr(3)
			},
			2, 2001, nil,
		},
		{"regular product", func(p *product.Product) { p.ProductType = product.TypeRegular }, 2, 1000, ErrNotAuction},
		{"unapproved product", func(p *product.Product) { p.Status = product.StatusPending }, 2, 1000, ErrNotApproved},
		{"seller bids on own listing", func(p *product.Product) {}, 1, 1000, ErrOwnProduct},
		{
			"auction window closed",
			func(p *product.Product) {
				p.BidStartTime = timePtr(now.Add(-25 * time.Hour))
				p.BidEndTime = timePtr(now.Add(-time.Hour))
			},
			2, 1000, ErrBiddingClosed,
		},
		{
			"settled auction",
			func(p *product.Product) { p.BidSettledAt = timePtr(now.Add(-time.Minute)) },
			2, 1000, ErrBiddingClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := auctionProduct()
			tt.mutate(p)

			err := validateBid(p, tt.userID, tt.amount, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPlaceBid_Success(t *testing.T) {
	repo := new(MockBidRepository)
	products := new(MockProductRepository)
	wallets := new(MockWalletRepository)
	svc := NewService(repo, products, wallets)

	products.On("GetByID", mock.Anything, 5).Return(auctionProduct(), nil)
	wallets.On("HasSufficientBalance", mock.Anything, 2, int64(1500)).Return(true, nil)
	repo.On("PlaceBid", mock.Anything, 2, 5, int64(1500)).
		Return(auctionProduct(), &wallet.Transaction{ID: 42, AmountCents: 1500, Status: wallet.StatusPending}, nil)

	_, tr, err := svc.PlaceBid(context.Background(), 2, 5, 1500)
	require.NoError(t, err)
	assert.Equal(t, 42, tr.ID)
	repo.AssertExpectations(t)
}

func TestPlaceBid_InsufficientBalance(t *testing.T) {
	repo := new(MockBidRepository)
	products := new(MockProductRepository)
	wallets := new(MockWalletRepository)
	svc := NewService(repo, products, wallets)

	products.On("GetByID", mock.Anything, 5).Return(auctionProduct(), nil)
	wallets.On("HasSufficientBalance", mock.Anything, 2, int64(1500)).Return(false, nil)

	_, _, err := svc.PlaceBid(context.Background(), 2, 5, 1500)
	assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)
	repo.AssertNotCalled(t, "PlaceBid")
}

func TestPlaceBid_RejectedBeforeWalletCheck(t *testing.T) {
	repo := new(MockBidRepository)
	products := new(MockProductRepository)
	wallets := new(MockWalletRepository)
	svc := NewService(repo, products, wallets)

	products.On("GetByID", mock.Anything, 5).Return(auctionProduct(), nil)

	_, _, err := svc.PlaceBid(context.Background(), 2, 5, 500)
	assert.ErrorIs(t, err, ErrBidTooLow)
	wallets.AssertNotCalled(t, "HasSufficientBalance")
}

func TestPlaceBid_ConflictPropagates(t *testing.T) {
	repo := new(MockBidRepository)
	products := new(MockProductRepository)
	wallets := new(MockWalletRepository)
	svc := NewService(repo, products, wallets)

	products.On("GetByID", mock.Anything, 5).Return(auctionProduct(), nil)
	wallets.On("HasSufficientBalance", mock.Anything, 2, int64(1500)).Return(true, nil)
	repo.On("PlaceBid", mock.Anything, 2, 5, int64(1500)).Return(nil, nil, ErrBidConflict)

	_, _, err := svc.PlaceBid(context.Background(), 2, 5, 1500)
	assert.ErrorIs(t, err, ErrBidConflict)
}

func TestGetBidDetails_NotAnAuction(t *testing.T) {
	repo := new(MockBidRepository)
	products := new(MockProductRepository)
	svc := NewService(repo, products, new(MockWalletRepository))

	products.On("GetByID", mock.Anything, 5).
		Return(&product.Product{ID: 5, ProductType: product.TypeRegular}, nil)

	_, err := svc.GetBidDetails(context.Background(), 5, 0)
	assert.ErrorIs(t, err, ErrNotAuction)
}

func TestGetBidDetails_WinnerFlagAndHold(t *testing.T) {
	repo := new(MockBidRepository)
	products := new(MockProductRepository)
	svc := NewService(repo, products, new(MockWalletRepository))

	p := auctionProduct()
	p.CurrentBidPriceCents = int64Ptr(2500)
	p.CurrentBidderID = intPtr(2)
	p.BidStartTime = timePtr(time.Now().Add(-25 * time.Hour))
	p.BidEndTime = timePtr(time.Now().Add(-time.Hour))
	p.BidSettledAt = timePtr(time.Now())

	products.On("GetByID", mock.Anything, 5).Return(p, nil)
	repo.On("LatestHoldForUser", mock.Anything, 5, 2).
		Return(&wallet.Transaction{ID: 42}, nil)

	view, err := svc.GetBidDetails(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.True(t, view.IsWinner)
	assert.Equal(t, StatusExpired, view.BidStatus)
	require.NotNil(t, view.TransactionID)
	assert.Equal(t, 42, *view.TransactionID)
}

func TestGetBidDetails_WinnerBeforeSettlement(t *testing.T) {
	repo := new(MockBidRepository)
	products := new(MockProductRepository)
	svc := NewService(repo, products, new(MockWalletRepository))

	// Window closed an hour ago but the sweeper has not run yet.
	p := auctionProduct()
	p.CurrentBidPriceCents = int64Ptr(2500)
	p.CurrentBidderID = intPtr(2)
	p.BidStartTime = timePtr(time.Now().Add(-25 * time.Hour))
	p.BidEndTime = timePtr(time.Now().Add(-time.Hour))

	products.On("GetByID", mock.Anything, 5).Return(p, nil)
	repo.On("LatestHoldForUser", mock.Anything, 5, 2).
		Return(&wallet.Transaction{ID: 42}, nil)

	view, err := svc.GetBidDetails(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.True(t, view.IsWinner)
	assert.False(t, view.Settled)
	assert.Equal(t, StatusExpired, view.BidStatus)
}

func TestGetBidDetails_LeaderNotWinnerWhileActive(t *testing.T) {
	repo := new(MockBidRepository)
	products := new(MockProductRepository)
	svc := NewService(repo, products, new(MockWalletRepository))

	p := auctionProduct()
	p.CurrentBidPriceCents = int64Ptr(2500)
	p.CurrentBidderID = intPtr(2)
	p.BidStartTime = timePtr(time.Now().Add(-time.Hour))
	p.BidEndTime = timePtr(time.Now().Add(23 * time.Hour))

	products.On("GetByID", mock.Anything, 5).Return(p, nil)
	repo.On("LatestHoldForUser", mock.Anything, 5, 2).
		Return(&wallet.Transaction{ID: 42}, nil)

	view, err := svc.GetBidDetails(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.False(t, view.IsWinner)
	assert.Equal(t, StatusActive, view.BidStatus)
}

func TestBuildView_Statuses(t *testing.T) {
	now := time.Now()

	fresh := auctionProduct()
	assert.Equal(t, StatusNotStarted, buildView(fresh, now).BidStatus)
	assert.False(t, buildView(fresh, now).IsActive)
	assert.Equal(t, int64(1000), buildView(fresh, now).MinNextBidCents)

	active := auctionProduct()
	active.CurrentBidPriceCents = int64Ptr(2000)
	active.CurrentBidderID = intPtr(3)
	active.BidStartTime = timePtr(now.Add(-time.Hour))
	active.BidEndTime = timePtr(now.Add(23 * time.Hour))
	view := buildView(active, now)
	assert.Equal(t, StatusActive, view.BidStatus)
	assert.True(t, view.IsActive)
	assert.Equal(t, int64(2001), view.MinNextBidCents)

	expired := auctionProduct()
	expired.BidStartTime = timePtr(now.Add(-25 * time.Hour))
	expired.BidEndTime = timePtr(now.Add(-time.Hour))
	view = buildView(expired, now)
	assert.Equal(t, StatusExpired, view.BidStatus)
	assert.False(t, view.IsActive)
}
