package clients

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bidforhope/livesync/go/internal/models"
)

// GetAuction fetches the auction snapshot.
func (c *BidForHopeClient) GetAuction(ctx context.Context, auctionID string) (*models.Auction, error) {
	body, err := c.Get(ctx, fmt.Sprintf(auctionEndpoint, auctionID))
	if err != nil {
		return nil, fmt.Errorf("failed to get auction %s: %w", auctionID, err)
	}
	var auction models.Auction
	if err := decodeData(body, &auction); err != nil {
		return nil, err
	}
	return &auction, nil
}

// GetAuctionBids fetches the complete bid list for an auction. Each fetch is
// a full, self-consistent snapshot; callers replace their previous list.
func (c *BidForHopeClient) GetAuctionBids(ctx context.Context, auctionID string) ([]models.Bid, error) {
	body, err := c.Get(ctx, fmt.Sprintf(auctionBidsEndpoint, auctionID))
	if err != nil {
		return nil, fmt.Errorf("failed to get bids for auction %s: %w", auctionID, err)
	}
	var bids []models.Bid
	if err := decodeData(body, &bids); err != nil {
		return nil, err
	}
	return bids, nil
}

// PlaceBid submits a bid intent. The confirmed price comes from the next
// auction re-fetch, not from this call.
func (c *BidForHopeClient) PlaceBid(ctx context.Context, auctionID string, amount decimal.Decimal) error {
	payload := struct {
		Amount decimal.Decimal `json:"amount"`
	}{Amount: amount}
	if _, err := c.Post(ctx, fmt.Sprintf(placeBidEndpoint, auctionID), payload); err != nil {
		return fmt.Errorf("failed to place bid on auction %s: %w", auctionID, err)
	}
	return nil
}

// EndAuction ends an auction early (admin only).
func (c *BidForHopeClient) EndAuction(ctx context.Context, auctionID string) error {
	if _, err := c.Put(ctx, fmt.Sprintf(endAuctionEndpoint, auctionID), nil); err != nil {
		return fmt.Errorf("failed to end auction %s: %w", auctionID, err)
	}
	return nil
}

// Donate submits a direct donation intent for an auction's NGO. Payment
// mechanics are the provider's problem; the wallet credit shows up in the
// ledger once the backend confirms it.
func (c *BidForHopeClient) Donate(ctx context.Context, auctionID, ngoEmail, donorName string, amount decimal.Decimal) error {
	payload := struct {
		NGOEmail  string          `json:"ngoEmail"`
		DonorName string          `json:"donorName,omitempty"`
		Amount    decimal.Decimal `json:"amount"`
	}{NGOEmail: ngoEmail, DonorName: donorName, Amount: amount}
	if _, err := c.Post(ctx, fmt.Sprintf(donateEndpoint, auctionID), payload); err != nil {
		return fmt.Errorf("failed to donate to auction %s: %w", auctionID, err)
	}
	return nil
}
