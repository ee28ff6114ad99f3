package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Bidder identifies who placed a bid. The backend may omit the id for
// anonymised bidders, in which case the name is the only identity available.
type Bidder struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON accepts both "id" and the backend's Mongo-style "_id".
func (b *Bidder) UnmarshalJSON(data []byte) error {
	type alias Bidder
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = aux.MongoID
	}
	return nil
}

// Key returns the identity used to de-duplicate bids per bidder: the id when
// present, the name as a fallback, and empty when neither exists (an empty
// key marks the bid as unmergeable).
func (b *Bidder) Key() string {
	if b == nil {
		return ""
	}
	if b.ID != "" {
		return b.ID
	}
	return b.Name
}

// Bid is a single append-only ledger entry in an auction's bid history.
// Bids are never mutated or deleted once observed.
type Bid struct {
	ID        string          `json:"id"`
	AuctionID string          `json:"auctionId"`
	Bidder    *Bidder         `json:"bidder,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Time      time.Time       `json:"time"`
}

// UnmarshalJSON accepts both "id" and the backend's Mongo-style "_id".
func (b *Bid) UnmarshalJSON(data []byte) error {
	type alias Bid
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = aux.MongoID
	}
	return nil
}
