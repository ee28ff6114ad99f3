package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/bidforhope/livesync/go/internal/models"
)

// GetTransactions fetches the full transaction ledger for an NGO, plus the
// server's advisory wallet aggregate.
func (c *BidForHopeClient) GetTransactions(ctx context.Context, ngoID string) (*models.TransactionsPage, error) {
	body, err := c.Get(ctx, fmt.Sprintf(transactionsEndpoint, ngoID))
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for ngo %s: %w", ngoID, err)
	}
	var page models.TransactionsPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}
	return &page, nil
}

// SubmitDebit records a spend against the NGO wallet. The backend re-checks
// the balance; a rejection here on a concurrently drained wallet is the
// stale-read race, surfaced as a RequestError.
func (c *BidForHopeClient) SubmitDebit(ctx context.Context, ngoID string, amount decimal.Decimal, domain, description string) error {
	payload := struct {
		Amount      decimal.Decimal `json:"amount"`
		Domain      string          `json:"domain"`
		Description string          `json:"description"`
	}{Amount: amount, Domain: domain, Description: description}
	if _, err := c.Post(ctx, fmt.Sprintf(debitEndpoint, ngoID), payload); err != nil {
		return fmt.Errorf("failed to submit debit for ngo %s: %w", ngoID, err)
	}
	return nil
}

// GetBankDetails fetches the NGO's payout destination. A nil result means no
// bank details are registered yet and withdrawals must not be offered.
func (c *BidForHopeClient) GetBankDetails(ctx context.Context, email string) (*models.BankDetails, error) {
	endpoint := bankDetailsEndpoint + "?email=" + url.QueryEscape(email)
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get bank details for %s: %w", email, err)
	}
	var details *models.BankDetails
	if err := decodeData(body, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// UpdateBankDetails registers or replaces the NGO's payout destination.
func (c *BidForHopeClient) UpdateBankDetails(ctx context.Context, details models.BankDetails) error {
	if _, err := c.Put(ctx, bankDetailsEndpoint, details); err != nil {
		return fmt.Errorf("failed to update bank details for %s: %w", details.Email, err)
	}
	return nil
}
