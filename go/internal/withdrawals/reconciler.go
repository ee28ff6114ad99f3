// Package withdrawals maintains the authoritative list of an NGO's
// withdrawal requests, merging the point-in-time fetch with the incremental
// push events that race it. Status is monotonic: once a request is approved
// or rejected, no stale update can drag it back to pending.
package withdrawals

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bidforhope/livesync/go/internal/models"
)

// Reconciler folds withdrawal lifecycle updates into one list, keyed by
// request id, ordered newest-requested-first.
type Reconciler struct {
	mu   sync.Mutex
	byID map[string]int
	list []models.WithdrawalRequest
}

// NewReconciler creates an empty reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{byID: make(map[string]int)}
}

// Load merges a polled snapshot. Requests are append-only, so entries the
// client already knows but the snapshot doesn't carry yet (a pushed request
// the poll response predates) are kept, never dropped. For entries both
// sides know, the causally newer version wins, so a stale poll response
// cannot revert a processed push already applied.
func (r *Reconciler) Load(snapshot []models.WithdrawalRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inSnapshot := make(map[string]models.WithdrawalRequest, len(snapshot))
	for _, incoming := range snapshot {
		inSnapshot[incoming.ID] = incoming
	}

	for i, current := range r.list {
		if incoming, ok := inSnapshot[current.ID]; ok && !newerThan(current, incoming) {
			r.list[i] = incoming
		}
	}

	for _, incoming := range snapshot {
		if _, ok := r.byID[incoming.ID]; ok {
			continue
		}
		r.byID[incoming.ID] = len(r.list)
		r.list = append(r.list, incoming)
	}
	r.reindex()
}

// ApplyRequested folds a withdrawalRequested push: a new pending entry is
// prepended; a redelivery for a known id is a no-op merge, never a duplicate
// insert. Reports whether the list changed.
func (r *Reconciler) ApplyRequested(req models.WithdrawalRequest) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[req.ID]; ok {
		return false
	}

	r.list = append([]models.WithdrawalRequest{req}, r.list...)
	r.reindex()

	log.Debug().
		Str("request_id", req.ID).
		Str("ngo_email", req.NGOEmail).
		Msg("withdrawal request added")
	return true
}

// ApplyProcessed folds a withdrawalProcessed push: the entry's status,
// processedAt and adminNote are updated in place. Idempotent by id; a push
// carrying an older processedAt than already recorded is discarded, and a
// terminal status never regresses. Reports whether the list changed.
func (r *Reconciler) ApplyProcessed(update models.WithdrawalRequest) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	at, ok := r.byID[update.ID]
	if !ok {
		// Processed before the snapshot ever showed it; keep it rather
		// than lose a terminal state.
		r.list = append([]models.WithdrawalRequest{update}, r.list...)
		r.reindex()
		return true
	}

	current := r.list[at]
	if !supersedes(current, update) {
		log.Debug().
			Str("request_id", update.ID).
			Str("status", string(update.Status)).
			Msg("stale withdrawal update discarded")
		return false
	}

	if current.Status == update.Status &&
		current.AdminNote == update.AdminNote &&
		sameTime(current.ProcessedAt, update.ProcessedAt) {
		return false // exact redelivery
	}

	current.Status = update.Status
	current.ProcessedAt = update.ProcessedAt
	current.AdminNote = update.AdminNote
	r.list[at] = current

	log.Debug().
		Str("request_id", update.ID).
		Str("status", string(update.Status)).
		Msg("withdrawal request processed")
	return true
}

// All returns a copy of the full list, newest-requested-first.
func (r *Reconciler) All() []models.WithdrawalRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.WithdrawalRequest, len(r.list))
	copy(out, r.list)
	return out
}

// Pending returns the admin-facing view: pending requests only. An entry
// disappears from this view the moment a processed event changes its status.
func (r *Reconciler) Pending() []models.WithdrawalRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.WithdrawalRequest, 0, len(r.list))
	for _, req := range r.list {
		if req.Status == models.WithdrawalStatusPending {
			out = append(out, req)
		}
	}
	return out
}

// reindex rebuilds the id index after any structural change.
func (r *Reconciler) reindex() {
	r.byID = make(map[string]int, len(r.list))
	for i, req := range r.list {
		r.byID[req.ID] = i
	}
}

// supersedes reports whether update is causally at least as recent as
// current and carries a legal transition.
func supersedes(current, update models.WithdrawalRequest) bool {
	if current.Status.Terminal() {
		// pending can never come back.
		if !update.Status.Terminal() {
			return false
		}
		if current.ProcessedAt != nil &&
			(update.ProcessedAt == nil || update.ProcessedAt.Before(*current.ProcessedAt)) {
			return false
		}
	}
	return true
}

// newerThan reports whether current (local) is causally ahead of incoming
// (from a poll snapshot).
func newerThan(current, incoming models.WithdrawalRequest) bool {
	return current.Status.Terminal() && !supersedes(current, incoming)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
