package clients

import (
	"encoding/json"
	"fmt"

	"github.com/bidforhope/livesync/go/internal/session"
)

// BidForHopeClient is the typed client for the charity-auction backend. All
// reads return full snapshots; all writes are intents the backend confirms
// through a subsequent re-fetch, never through local state changes.
type BidForHopeClient struct {
	*BaseClient
}

// NewBidForHopeClient creates a client rooted at baseURL (e.g.
// "http://localhost:5000/api"). When a session is present its bearer token
// is attached to every request.
func NewBidForHopeClient(baseURL string, sess *session.Session) *BidForHopeClient {
	base := NewBaseClient(baseURL)
	if sess.Authenticated() {
		base.SetHeader("Authorization", "Bearer "+sess.Token)
	}
	return &BidForHopeClient{BaseClient: base}
}

// decodeData unmarshals the backend's {"data": ...} envelope into out.
func decodeData(body []byte, out any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal response envelope: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}
