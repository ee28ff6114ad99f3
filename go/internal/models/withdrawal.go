package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalStatus defines the lifecycle status of a withdrawal request.
// A request transitions pending->approved or pending->rejected exactly once.
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// Terminal reports whether the status can no longer change.
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalStatusApproved || s == WithdrawalStatusRejected
}

// WithdrawalRequest is an NGO's request to withdraw funds from its wallet.
// Requests are keyed by NGO email rather than NGO id; that inconsistency
// comes from the backend and the client tolerates it as-is.
type WithdrawalRequest struct {
	ID          string           `json:"id"`
	NGOEmail    string           `json:"ngoEmail"`
	NGO         *NGO             `json:"ngo,omitempty"`
	BankDetails *BankDetails     `json:"bankDetails,omitempty"`
	Amount      decimal.Decimal  `json:"amount"`
	Domain      string           `json:"domain,omitempty"`
	Description string           `json:"description,omitempty"`
	Status      WithdrawalStatus `json:"status"`
	RequestedAt time.Time        `json:"requestedAt"`
	ProcessedAt *time.Time       `json:"processedAt,omitempty"`
	AdminNote   string           `json:"adminNote,omitempty"`
}

// UnmarshalJSON accepts both "id" and the backend's Mongo-style "_id".
func (w *WithdrawalRequest) UnmarshalJSON(data []byte) error {
	type alias WithdrawalRequest
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(w)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if w.ID == "" {
		w.ID = aux.MongoID
	}
	return nil
}

// BankDetails is the payout destination an NGO must register before the
// withdrawal flow is offered.
type BankDetails struct {
	Email         string `json:"email"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	IFSC          string `json:"ifsc,omitempty"`
	HolderName    string `json:"holderName,omitempty"`
}
