package bid

import (
	"context"
	"errors"
	"time"

	"github.com/CeliaIneza/celebstash-back/internal/logger"
	"github.com/CeliaIneza/celebstash-back/internal/metrics"
	"github.com/CeliaIneza/celebstash-back/internal/user"
)

type userDirectory interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type resultMailer interface {
	SendAuctionWon(ctx context.Context, email, name, productName string, amountCents int64) error
	SendAuctionLost(ctx context.Context, email, name, productName string, amountCents int64) error
}

// Sweeper periodically finalizes expired auctions. Each listing settles in
// its own transaction, so one bad listing never blocks the rest; it is simply
// retried on the next pass.
type Sweeper struct {
	repo     Repository
	users    userDirectory
	mailer   resultMailer
	interval time.Duration
}

func NewSweeper(repo Repository, users userDirectory, mailer resultMailer, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		repo:     repo,
		users:    users,
		mailer:   mailer,
		interval: interval,
	}
}

type PassStats struct {
	Settled  int
	Failed   int
	Refunded int
}

// Start runs settlement passes until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	logger.Info("settlement sweeper started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunPass(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("settlement sweeper stopped")
			return
		case <-ticker.C:
			s.RunPass(ctx)
		}
	}
}

// RunPass settles every expired unsettled auction it can, logging and
// skipping the ones it cannot.
func (s *Sweeper) RunPass(ctx context.Context) PassStats {
	var stats PassStats

	ids, err := s.repo.FindExpiredUnsettled(ctx)
	if err != nil {
		logger.Error("settlement pass failed to list expired auctions", "error", err)
		return stats
	}

	for _, id := range ids {
		result, err := s.repo.SettleListing(ctx, id)
		if errors.Is(err, ErrAlreadySettled) {
			continue
		}
		if err != nil {
			logger.Error("failed to settle auction", "product_id", id, "error", err)
			metrics.RecordSettlement("error")
			stats.Failed++
			continue
		}

		metrics.RecordSettlement("settled")
		metrics.RecordSettlementRefunds(len(result.Refunds))
		stats.Settled++
		stats.Refunded += len(result.Refunds)

		logger.Info("auction settled",
			"product_id", id, "had_bids", result.HadBids, "refunded_holds", len(result.Refunds))

		s.notify(ctx, result)
	}

	return stats
}

// notify emails the winner and the refunded bidders. Notification failures
// are logged and dropped; settlement already committed.
func (s *Sweeper) notify(ctx context.Context, result *SettlementResult) {
	if s.users == nil || s.mailer == nil {
		return
	}

	if result.WinnerUserID != nil {
		if u, err := s.users.FindByID(ctx, *result.WinnerUserID); err != nil {
			logger.Error("failed to look up auction winner", "user_id", *result.WinnerUserID, "error", err)
		} else if err := s.mailer.SendAuctionWon(ctx, u.Email, u.Name, result.ProductName, result.WinningAmountCents); err != nil {
			logger.Error("failed to queue winner email", "user_id", u.ID, "error", err)
		}
	}

	for _, refund := range result.Refunds {
		u, err := s.users.FindByID(ctx, refund.UserID)
		if err != nil {
			logger.Error("failed to look up refunded bidder", "user_id", refund.UserID, "error", err)
			continue
		}
		if err := s.mailer.SendAuctionLost(ctx, u.Email, u.Name, result.ProductName, refund.AmountCents); err != nil {
			logger.Error("failed to queue refund email", "user_id", u.ID, "error", err)
		}
	}
}
