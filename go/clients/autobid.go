package clients

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bidforhope/livesync/go/internal/models"
)

// EnableAutoBid asks the backend to start proxy-bidding up to maxAmount.
func (c *BidForHopeClient) EnableAutoBid(ctx context.Context, auctionID string, maxAmount decimal.Decimal) error {
	payload := struct {
		AuctionID string          `json:"auctionId"`
		MaxAmount decimal.Decimal `json:"maxAmount"`
	}{AuctionID: auctionID, MaxAmount: maxAmount}
	if _, err := c.Post(ctx, autoBidEnableEndpoint, payload); err != nil {
		return fmt.Errorf("failed to enable auto-bid for auction %s: %w", auctionID, err)
	}
	return nil
}

// DisableAutoBid stops proxy-bidding for the auction.
func (c *BidForHopeClient) DisableAutoBid(ctx context.Context, auctionID string) error {
	payload := struct {
		AuctionID string `json:"auctionId"`
	}{AuctionID: auctionID}
	if _, err := c.Post(ctx, autoBidDisableEndpoint, payload); err != nil {
		return fmt.Errorf("failed to disable auto-bid for auction %s: %w", auctionID, err)
	}
	return nil
}

// GetAutoBidStatus fetches the backend's auto-bid status snapshot. A nil
// status means the user has never enabled auto-bid on this auction.
func (c *BidForHopeClient) GetAutoBidStatus(ctx context.Context, auctionID string) (*models.AutoBidStatus, error) {
	body, err := c.Get(ctx, fmt.Sprintf(autoBidStatusEndpoint, auctionID))
	if err != nil {
		return nil, fmt.Errorf("failed to get auto-bid status for auction %s: %w", auctionID, err)
	}
	var envelope struct {
		AutoBid *models.AutoBidStatus `json:"autoBid"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auto-bid status: %w", err)
	}
	return envelope.AutoBid, nil
}
