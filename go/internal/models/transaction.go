package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType defines the direction of a wallet ledger entry.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// TransactionStatus defines the settlement state of a ledger entry. The
// backend has used both "completed" and "debited" as terminal states for
// credits; both are counted as settled.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusDebited   TransactionStatus = "debited"
)

// Settled reports whether the status is terminal.
func (s TransactionStatus) Settled() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusDebited
}

// Transaction is one append-only entry in an NGO's wallet ledger. Status may
// transition from pending to a terminal state exactly once; nothing else on
// an observed entry ever changes.
type Transaction struct {
	ID          string            `json:"id"`
	NGOID       string            `json:"ngoId"`
	Type        TransactionType   `json:"type"`
	Amount      decimal.Decimal   `json:"amount"`
	Status      TransactionStatus `json:"status"`
	Domain      string            `json:"domain,omitempty"`
	Description string            `json:"description,omitempty"`
	Reference   string            `json:"reference,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// UnmarshalJSON accepts both "id" and the backend's Mongo-style "_id".
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type alias Transaction
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = aux.MongoID
	}
	return nil
}

// TransactionsPage is the transactions endpoint response. WalletAmount is the
// server-side aggregate; it is advisory display data only and is never used
// for submit-time validation (the client fold is authoritative).
type TransactionsPage struct {
	Data         []Transaction    `json:"data"`
	WalletAmount *decimal.Decimal `json:"walletAmount,omitempty"`
}
