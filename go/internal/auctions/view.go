// Package auctions holds the reconciled per-auction projection: the auction
// and bid-list snapshots, plus the leaderboard, winner and countdown views
// derived from them. Snapshots are replaced wholesale; every derived value
// is recomputed from the current snapshot on demand.
package auctions

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/bidforhope/livesync/go/internal/countdown"
	"github.com/bidforhope/livesync/go/internal/models"
	"github.com/bidforhope/livesync/go/internal/ranking"
)

// Backend is what the auction view needs from the REST client.
type Backend interface {
	GetAuction(ctx context.Context, auctionID string) (*models.Auction, error)
	GetAuctionBids(ctx context.Context, auctionID string) ([]models.Bid, error)
	PlaceBid(ctx context.Context, auctionID string, amount decimal.Decimal) error
}

// View is the reconciled state of one auction.
type View struct {
	auctionID string
	backend   Backend

	mu      sync.Mutex
	auction *models.Auction
	bids    []models.Bid
}

// NewView creates an empty auction view.
func NewView(auctionID string, backend Backend) *View {
	return &View{auctionID: auctionID, backend: backend}
}

// Refresh fetches both snapshots. Shaped as a topicsync.PollFunc. A failure
// of either fetch keeps the corresponding previous snapshot.
func (v *View) Refresh(ctx context.Context) error {
	auction, err := v.backend.GetAuction(ctx, v.auctionID)
	if err != nil {
		return err
	}
	bids, err := v.backend.GetAuctionBids(ctx, v.auctionID)
	if err != nil {
		// Keep the auction snapshot we did get.
		v.mu.Lock()
		v.auction = auction
		v.mu.Unlock()
		return err
	}

	v.mu.Lock()
	v.auction = auction
	v.bids = bids
	v.mu.Unlock()

	log.Debug().
		Str("auction_id", v.auctionID).
		Str("status", string(auction.Status)).
		Int("bids", len(bids)).
		Msg("auction refreshed")
	return nil
}

// Auction returns the current auction snapshot, nil before the first fetch.
func (v *View) Auction() *models.Auction {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.auction
}

// Bids returns a copy of the current bid list.
func (v *View) Bids() []models.Bid {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.Bid, len(v.bids))
	copy(out, v.bids)
	return out
}

// Leaderboard returns the bid-history view: top distinct bidders, highest
// bid each, at most ranking.LeaderboardSize entries.
func (v *View) Leaderboard() []models.Bid {
	return ranking.TopBids(v.Bids(), ranking.LeaderboardSize)
}

// Winner returns the winning bid once the auction has ended. Before the end,
// or with no bids, ok is false.
func (v *View) Winner() (models.Bid, bool) {
	v.mu.Lock()
	auction := v.auction
	bids := v.bids
	v.mu.Unlock()

	if auction == nil || auction.Status != models.AuctionStatusEnded {
		return models.Bid{}, false
	}
	return ranking.Winner(bids)
}

// IsWinner reports whether userID holds the winning bid of an ended auction.
func (v *View) IsWinner(userID string) bool {
	if _, ok := v.Winner(); !ok {
		return false
	}
	return ranking.IsWinner(v.Bids(), userID)
}

// TimeLeft returns the countdown for an active auction as seen at now;
// ok is false when the auction is missing, not active, or already past its
// deadline.
func (v *View) TimeLeft(now time.Time) (countdown.TimeLeft, bool) {
	auction := v.Auction()
	if auction == nil || !auction.IsActive() {
		return countdown.TimeLeft{}, false
	}
	return countdown.Remaining(auction.EndDate, now)
}

// PlaceBid validates the amount against the current snapshot and submits the
// bid intent. The confirmed price arrives via the next refresh.
func (v *View) PlaceBid(ctx context.Context, amount decimal.Decimal) error {
	if err := v.validateBid(amount); err != nil {
		return err
	}
	if err := v.backend.PlaceBid(ctx, v.auctionID, amount); err != nil {
		return err
	}
	return v.Refresh(ctx)
}

func (v *View) validateBid(amount decimal.Decimal) error {
	auction := v.Auction()
	if auction == nil || !auction.IsActive() {
		return errNotActive
	}
	if min := auction.MinimumNextBid(); amount.LessThan(min) {
		return errBidBelowMinimum(min)
	}
	return nil
}
