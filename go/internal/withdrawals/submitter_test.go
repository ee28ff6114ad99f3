package withdrawals

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bidforhope/livesync/go/internal/apierrors"
	"github.com/bidforhope/livesync/go/internal/models"
)

type fakeSubmitBackend struct {
	bankDetails *models.BankDetails
	page        *models.TransactionsPage
	requestErr  error

	requestCalls int
}

func (f *fakeSubmitBackend) GetBankDetails(ctx context.Context, email string) (*models.BankDetails, error) {
	return f.bankDetails, nil
}

func (f *fakeSubmitBackend) GetTransactions(ctx context.Context, ngoID string) (*models.TransactionsPage, error) {
	return f.page, nil
}

func (f *fakeSubmitBackend) RequestWithdrawal(ctx context.Context, ngoEmail string, amount decimal.Decimal, domain, description string) (*models.WithdrawalRequest, error) {
	f.requestCalls++
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	return &models.WithdrawalRequest{
		ID:       "w1",
		NGOEmail: ngoEmail,
		Amount:   amount,
		Status:   models.WithdrawalStatusPending,
	}, nil
}

func backendWithBalance(available int64) *fakeSubmitBackend {
	return &fakeSubmitBackend{
		bankDetails: &models.BankDetails{
			Email:         "ngo@example.org",
			BankName:      "First Hope",
			AccountNumber: "12345678",
		},
		page: &models.TransactionsPage{
			Data: []models.Transaction{{
				Type:   models.TransactionTypeCredit,
				Status: models.TransactionStatusCompleted,
				Amount: decimal.NewFromInt(available),
			}},
		},
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		backend := backendWithBalance(500)
		req, err := NewSubmitter(backend).Submit(ctx, "ngo1", "ngo@example.org",
			decimal.NewFromInt(400), "education", "school supplies")

		require.NoError(t, err)
		require.Equal(t, "w1", req.ID)
		require.Equal(t, models.WithdrawalStatusPending, req.Status)
		require.Equal(t, 1, backend.requestCalls)
	})

	t.Run("amount_over_available_rejected_before_network", func(t *testing.T) {
		backend := backendWithBalance(400)
		_, err := NewSubmitter(backend).Submit(ctx, "ngo1", "ngo@example.org",
			decimal.NewFromInt(401), "education", "school supplies")

		require.True(t, apierrors.IsValidation(err))
		require.Zero(t, backend.requestCalls)
	})

	t.Run("pending_credits_do_not_count", func(t *testing.T) {
		backend := backendWithBalance(400)
		backend.page.Data = append(backend.page.Data, models.Transaction{
			Type:   models.TransactionTypeCredit,
			Status: models.TransactionStatusPending,
			Amount: decimal.NewFromInt(1000),
		})

		_, err := NewSubmitter(backend).Submit(ctx, "ngo1", "ngo@example.org",
			decimal.NewFromInt(500), "education", "school supplies")

		require.True(t, apierrors.IsValidation(err))
		require.Zero(t, backend.requestCalls)
	})

	t.Run("missing_bank_details_gate", func(t *testing.T) {
		backend := backendWithBalance(500)
		backend.bankDetails = nil

		_, err := NewSubmitter(backend).Submit(ctx, "ngo1", "ngo@example.org",
			decimal.NewFromInt(100), "education", "school supplies")

		require.True(t, apierrors.IsValidation(err))
		require.Zero(t, backend.requestCalls)
	})

	t.Run("field_validation", func(t *testing.T) {
		tests := []struct {
			name        string
			email       string
			amount      int64
			description string
		}{
			{name: "empty_email", email: "", amount: 100, description: "d"},
			{name: "zero_amount", email: "ngo@example.org", amount: 0, description: "d"},
			{name: "negative_amount", email: "ngo@example.org", amount: -5, description: "d"},
			{name: "blank_description", email: "ngo@example.org", amount: 100, description: "  "},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				backend := backendWithBalance(500)
				_, err := NewSubmitter(backend).Submit(ctx, "ngo1", tt.email,
					decimal.NewFromInt(tt.amount), "", tt.description)

				require.True(t, apierrors.IsValidation(err))
				require.Zero(t, backend.requestCalls)
			})
		}
	})

	t.Run("stale_read_rejection_surfaces_unretried", func(t *testing.T) {
		backend := backendWithBalance(500)
		backend.requestErr = &apierrors.RequestError{StatusCode: 400, Message: "insufficient balance"}

		_, err := NewSubmitter(backend).Submit(ctx, "ngo1", "ngo@example.org",
			decimal.NewFromInt(400), "education", "school supplies")

		require.True(t, apierrors.IsStaleRead(err))
		require.Equal(t, 1, backend.requestCalls)
	})
}
