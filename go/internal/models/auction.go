package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus defines the lifecycle status of an auction.
type AuctionStatus string

const (
	AuctionStatusDraft   AuctionStatus = "draft"
	AuctionStatusPending AuctionStatus = "pending"
	AuctionStatusActive  AuctionStatus = "active"
	AuctionStatusEnded   AuctionStatus = "ended"
)

// Auction is the backend-owned auction snapshot. The client never mutates it;
// each fetch replaces the previous snapshot wholesale.
type Auction struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Status              AuctionStatus   `json:"status"`
	StartingPrice       decimal.Decimal `json:"startingPrice"`
	CurrentPrice        decimal.Decimal `json:"currentPrice"`
	BidIncrement        decimal.Decimal `json:"bidIncrement"`
	StartDate           time.Time       `json:"startDate"`
	EndDate             time.Time       `json:"endDate"`
	TotalBids           int             `json:"totalBids"`
	NGO                 *NGO            `json:"ngo,omitempty"`
	AllowDirectDonation bool            `json:"allowDirectDonation,omitempty"`
	IsUrgent            bool            `json:"isUrgent,omitempty"`
}

// UnmarshalJSON accepts both "id" and the backend's Mongo-style "_id".
func (a *Auction) UnmarshalJSON(data []byte) error {
	type alias Auction
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = aux.MongoID
	}
	return nil
}

// MinimumNextBid returns the lowest amount the backend will accept for the
// next bid on this auction.
func (a Auction) MinimumNextBid() decimal.Decimal {
	return a.CurrentPrice.Add(a.BidIncrement)
}

// IsActive reports whether bidding is open.
func (a Auction) IsActive() bool {
	return a.Status == AuctionStatusActive
}
