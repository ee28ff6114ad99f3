package clients

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/bidforhope/livesync/go/internal/models"
)

// RequestWithdrawal submits a new withdrawal request for an NGO.
func (c *BidForHopeClient) RequestWithdrawal(ctx context.Context, ngoEmail string, amount decimal.Decimal, domain, description string) (*models.WithdrawalRequest, error) {
	payload := struct {
		NGOEmail    string          `json:"ngoEmail"`
		Amount      decimal.Decimal `json:"amount"`
		Domain      string          `json:"domain"`
		Description string          `json:"description"`
	}{NGOEmail: ngoEmail, Amount: amount, Domain: domain, Description: description}

	body, err := c.Post(ctx, withdrawalRequestEndpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to request withdrawal for %s: %w", ngoEmail, err)
	}
	var req models.WithdrawalRequest
	if err := decodeData(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// GetMyWithdrawals fetches the point-in-time withdrawal list for an NGO.
func (c *BidForHopeClient) GetMyWithdrawals(ctx context.Context, ngoEmail string) ([]models.WithdrawalRequest, error) {
	endpoint := myWithdrawalsEndpoint + "?ngoEmail=" + url.QueryEscape(ngoEmail)
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawals for %s: %w", ngoEmail, err)
	}
	var reqs []models.WithdrawalRequest
	if err := decodeData(body, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// ProcessWithdrawal marks a request approved or rejected (admin only).
// Approval with payout goes through ProcessAndPay instead.
func (c *BidForHopeClient) ProcessWithdrawal(ctx context.Context, requestID string, status models.WithdrawalStatus) error {
	payload := struct {
		Status models.WithdrawalStatus `json:"status"`
	}{Status: status}
	if _, err := c.Put(ctx, fmt.Sprintf(processWithdrawalEndpoint, requestID), payload); err != nil {
		return fmt.Errorf("failed to process withdrawal %s: %w", requestID, err)
	}
	return nil
}

// ProcessAndPay approves a request and triggers the payout in one backend
// operation (admin only).
func (c *BidForHopeClient) ProcessAndPay(ctx context.Context, requestID string) error {
	if _, err := c.Post(ctx, fmt.Sprintf(processAndPayEndpoint, requestID), nil); err != nil {
		return fmt.Errorf("failed to process and pay withdrawal %s: %w", requestID, err)
	}
	return nil
}
