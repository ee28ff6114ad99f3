package withdrawals

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/bidforhope/livesync/go/internal/apierrors"
	"github.com/bidforhope/livesync/go/internal/ledger"
	"github.com/bidforhope/livesync/go/internal/models"
)

// SubmitBackend is what the submitter needs from the REST client.
type SubmitBackend interface {
	GetBankDetails(ctx context.Context, email string) (*models.BankDetails, error)
	GetTransactions(ctx context.Context, ngoID string) (*models.TransactionsPage, error)
	RequestWithdrawal(ctx context.Context, ngoEmail string, amount decimal.Decimal, domain, description string) (*models.WithdrawalRequest, error)
}

// Submitter runs the withdrawal submission path: the bank-details gate and
// the submit-time balance check, then the backend call. The balance is
// re-derived from a fresh ledger fetch at submit time, not taken from
// whatever the screen last rendered, to shrink the stale-read window.
type Submitter struct {
	backend SubmitBackend
}

// NewSubmitter creates a submitter.
func NewSubmitter(backend SubmitBackend) *Submitter {
	return &Submitter{backend: backend}
}

// Submit validates and sends one withdrawal request.
//
// Validation failures return *apierrors.ValidationError before any mutating
// network call. A backend rejection caused by a concurrently changed balance
// comes back as a *apierrors.RequestError classified by IsStaleRead; it is
// surfaced, never retried with a different amount.
func (s *Submitter) Submit(ctx context.Context, ngoID, ngoEmail string, amount decimal.Decimal, domain, description string) (*models.WithdrawalRequest, error) {
	if strings.TrimSpace(ngoEmail) == "" {
		return nil, apierrors.NewValidation("ngoEmail", "required")
	}
	if !amount.IsPositive() {
		return nil, apierrors.NewValidation("amount", "must be positive")
	}
	if strings.TrimSpace(description) == "" {
		return nil, apierrors.NewValidation("description", "required")
	}

	details, err := s.backend.GetBankDetails(ctx, ngoEmail)
	if err != nil {
		return nil, err
	}
	if details == nil || details.AccountNumber == "" {
		return nil, apierrors.NewValidation("bankDetails", "bank details must be registered before withdrawing")
	}

	page, err := s.backend.GetTransactions(ctx, ngoID)
	if err != nil {
		return nil, err
	}
	balances := ledger.Derive(page.Data)
	if amount.GreaterThan(balances.Available) {
		return nil, apierrors.NewValidation("amount",
			"exceeds available balance of "+balances.Available.String())
	}

	req, err := s.backend.RequestWithdrawal(ctx, ngoEmail, amount, domain, description)
	if err != nil {
		if apierrors.IsStaleRead(err) {
			log.Warn().
				Str("ngo_email", ngoEmail).
				Str("amount", amount.String()).
				Msg("withdrawal rejected by backend: balance changed since validation")
		}
		return nil, err
	}

	log.Info().
		Str("request_id", req.ID).
		Str("ngo_email", ngoEmail).
		Str("amount", amount.String()).
		Msg("withdrawal requested")
	return req, nil
}
