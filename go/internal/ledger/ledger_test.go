package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bidforhope/livesync/go/internal/models"
)

func tx(txType models.TransactionType, status models.TransactionStatus, amount int64, domain string) models.Transaction {
	return models.Transaction{
		Type:   txType,
		Status: status,
		Amount: decimal.NewFromInt(amount),
		Domain: domain,
	}
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name          string
		txs           []models.Transaction
		wantAvailable int64
		wantPending   int64
	}{
		{
			name: "settled_credits_minus_debits_pending_separate",
			txs: []models.Transaction{
				tx(models.TransactionTypeCredit, models.TransactionStatusCompleted, 500, ""),
				tx(models.TransactionTypeCredit, models.TransactionStatusPending, 200, ""),
				tx(models.TransactionTypeDebit, models.TransactionStatusDebited, 100, ""),
			},
			wantAvailable: 400,
			wantPending:   200,
		},
		{
			name: "debited_credits_count_as_settled",
			txs: []models.Transaction{
				tx(models.TransactionTypeCredit, models.TransactionStatusDebited, 300, ""),
			},
			wantAvailable: 300,
			wantPending:   0,
		},
		{
			name: "pending_debits_do_not_reduce_available",
			txs: []models.Transaction{
				tx(models.TransactionTypeCredit, models.TransactionStatusCompleted, 500, ""),
				tx(models.TransactionTypeDebit, models.TransactionStatusPending, 100, ""),
			},
			wantAvailable: 500,
			wantPending:   0,
		},
		{
			name:          "empty_ledger",
			txs:           nil,
			wantAvailable: 0,
			wantPending:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.txs)
			require.True(t, got.Available.Equal(decimal.NewFromInt(tt.wantAvailable)),
				"available = %s", got.Available)
			require.True(t, got.Pending.Equal(decimal.NewFromInt(tt.wantPending)),
				"pending = %s", got.Pending)
		})
	}
}

func TestDeriveOrderIndependent(t *testing.T) {
	forward := []models.Transaction{
		tx(models.TransactionTypeCredit, models.TransactionStatusCompleted, 500, ""),
		tx(models.TransactionTypeCredit, models.TransactionStatusPending, 200, ""),
		tx(models.TransactionTypeDebit, models.TransactionStatusDebited, 100, ""),
	}
	reversed := []models.Transaction{forward[2], forward[1], forward[0]}

	a := Derive(forward)
	b := Derive(reversed)

	require.True(t, a.Available.Equal(b.Available))
	require.True(t, a.Pending.Equal(b.Pending))
}

func TestDomainTotals(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TransactionTypeCredit, models.TransactionStatusCompleted, 500, "education"),
		tx(models.TransactionTypeCredit, models.TransactionStatusCompleted, 250, "education"),
		tx(models.TransactionTypeCredit, models.TransactionStatusCompleted, 100, "health"),
		tx(models.TransactionTypeCredit, models.TransactionStatusPending, 999, "education"),
		tx(models.TransactionTypeDebit, models.TransactionStatusDebited, 50, "education"),
		tx(models.TransactionTypeCredit, models.TransactionStatusCompleted, 42, ""),
	}

	totals := DomainTotals(txs)

	require.Len(t, totals, 3)
	require.True(t, totals["education"].Equal(decimal.NewFromInt(750)))
	require.True(t, totals["health"].Equal(decimal.NewFromInt(100)))
	require.True(t, totals[""].Equal(decimal.NewFromInt(42)))
}
