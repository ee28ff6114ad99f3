// Package ledger derives wallet balances from an NGO's transaction list.
// The derivation is a pure fold: commutative over the input order and
// recomputed from scratch whenever the list changes.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/bidforhope/livesync/go/internal/models"
)

// Balances is the derived view of a transaction ledger.
//
// Available counts settled credits minus settled debits; Pending counts
// credits the payment provider has not confirmed yet. The server also sends
// its own aggregate but the client fold is authoritative, since it stays
// correct for pending entries the server aggregate may not reflect.
type Balances struct {
	Available decimal.Decimal
	Pending   decimal.Decimal
}

// Derive folds the full transaction list into balances.
func Derive(txs []models.Transaction) Balances {
	available := decimal.Zero
	pending := decimal.Zero

	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionTypeCredit:
			if tx.Status.Settled() {
				available = available.Add(tx.Amount)
			} else if tx.Status == models.TransactionStatusPending {
				pending = pending.Add(tx.Amount)
			}
		case models.TransactionTypeDebit:
			if tx.Status == models.TransactionStatusDebited {
				available = available.Sub(tx.Amount)
			}
		}
	}

	return Balances{Available: available, Pending: pending}
}

// DomainTotals sums settled credits per domain tag. Entries without a domain
// are grouped under the empty key.
func DomainTotals(txs []models.Transaction) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Type != models.TransactionTypeCredit || !tx.Status.Settled() {
			continue
		}
		totals[tx.Domain] = totals[tx.Domain].Add(tx.Amount)
	}
	return totals
}
