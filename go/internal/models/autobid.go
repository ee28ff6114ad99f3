package models

import "github.com/shopspring/decimal"

// StopReason is the backend-assigned code explaining why auto-bid
// participation ended. The client only ever observes these; it never
// infers a stop reason locally.
type StopReason string

const (
	StopReasonNone          StopReason = ""
	StopReasonHighestBidder StopReason = "highest-bidder"
	StopReasonMaxAmount     StopReason = "max-amount"
	StopReasonAuctionEnded  StopReason = "auction-ended"
)

// Message returns the user-facing explanation for a stop reason. Unknown
// codes map to a generic message rather than an error.
func (r StopReason) Message() string {
	switch r {
	case StopReasonHighestBidder:
		return "You are the highest bidder!"
	case StopReasonMaxAmount:
		return "Maximum auto-bid amount reached."
	case StopReasonAuctionEnded:
		return "Auction time is over."
	default:
		return "Auto-bidding is no longer active."
	}
}

// AutoBidStatus is the backend's snapshot of a user's auto-bid participation
// in one auction. Each status fetch is a complete, self-consistent view and
// replaces the previous one.
type AutoBidStatus struct {
	AuctionID  string          `json:"auctionId"`
	UserID     string          `json:"userId"`
	IsActive   bool            `json:"isActive"`
	MaxAmount  decimal.Decimal `json:"maxAmount"`
	StopReason StopReason      `json:"stopReason,omitempty"`
}
