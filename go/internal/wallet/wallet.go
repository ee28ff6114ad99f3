// Package wallet keeps one NGO's wallet projection: the transaction ledger
// snapshot and the balances derived from it. The backend is the single
// writer; every change lands here through a re-fetch, never a local
// read-modify-write.
package wallet

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/bidforhope/livesync/go/internal/apierrors"
	"github.com/bidforhope/livesync/go/internal/ledger"
	"github.com/bidforhope/livesync/go/internal/models"
)

// Backend is what the wallet view needs from the REST client.
type Backend interface {
	GetTransactions(ctx context.Context, ngoID string) (*models.TransactionsPage, error)
	SubmitDebit(ctx context.Context, ngoID string, amount decimal.Decimal, domain, description string) error
}

// View is the reconciled wallet state for one NGO.
type View struct {
	ngoID   string
	backend Backend

	mu           sync.Mutex
	transactions []models.Transaction
	balances     ledger.Balances
	serverAmount *decimal.Decimal
	loaded       bool
}

// NewView creates an empty wallet view; call Refresh (or wire it as a sync
// channel poll) to populate it.
func NewView(ngoID string, backend Backend) *View {
	return &View{ngoID: ngoID, backend: backend}
}

// Refresh replaces the ledger snapshot and re-derives balances. Shaped as a
// topicsync.PollFunc: a walletUpdate push signal triggers exactly this.
func (v *View) Refresh(ctx context.Context) error {
	page, err := v.backend.GetTransactions(ctx, v.ngoID)
	if err != nil {
		return err
	}

	balances := ledger.Derive(page.Data)

	v.mu.Lock()
	v.transactions = page.Data
	v.balances = balances
	v.serverAmount = page.WalletAmount
	v.loaded = true
	v.mu.Unlock()

	log.Debug().
		Str("ngo_id", v.ngoID).
		Int("transactions", len(page.Data)).
		Str("available", balances.Available.String()).
		Str("pending", balances.Pending.String()).
		Msg("wallet refreshed")
	return nil
}

// Balances returns the client-derived available and pending amounts.
func (v *View) Balances() ledger.Balances {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balances
}

// ServerWalletAmount returns the backend's advisory aggregate, when it sent
// one. Display only; validation always uses Balances.
func (v *View) ServerWalletAmount() *decimal.Decimal {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.serverAmount
}

// Transactions returns a copy of the current ledger snapshot.
func (v *View) Transactions() []models.Transaction {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.Transaction, len(v.transactions))
	copy(out, v.transactions)
	return out
}

// Loaded reports whether at least one snapshot has been applied.
func (v *View) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// Debit validates a spend against a freshly fetched balance and submits it.
// The wallet shows the new balance only after the confirming re-fetch; there
// is no optimistic local subtraction.
func (v *View) Debit(ctx context.Context, amount decimal.Decimal, domain, description string) error {
	if !amount.IsPositive() {
		return apierrors.NewValidation("amount", "must be positive")
	}
	if strings.TrimSpace(description) == "" {
		return apierrors.NewValidation("description", "required")
	}

	// Re-validate at submit time against a fresh snapshot, not whatever
	// the screen last rendered.
	if err := v.Refresh(ctx); err != nil {
		return err
	}
	if available := v.Balances().Available; amount.GreaterThan(available) {
		return apierrors.NewValidation("amount", "exceeds available balance of "+available.String())
	}

	if err := v.backend.SubmitDebit(ctx, v.ngoID, amount, domain, description); err != nil {
		if apierrors.IsStaleRead(err) {
			log.Warn().
				Str("ngo_id", v.ngoID).
				Str("amount", amount.String()).
				Msg("debit rejected by backend: balance changed since validation")
		}
		return err
	}

	return v.Refresh(ctx)
}
