// Package push delivers server-originated change notifications. The engine
// only requires a subscribe/unsubscribe surface per topic; the wire transport
// behind it (WebSocket or NATS) is interchangeable.
package push

import (
	"encoding/json"
	"time"
)

// Topics the backend publishes.
const (
	TopicWithdrawalRequested = "withdrawalRequested"
	TopicWithdrawalProcessed = "withdrawalProcessed"
	TopicWalletUpdatePrefix  = "walletUpdate:" // walletUpdate:<ngoId>, signal only
)

// WalletUpdateTopic returns the wallet-change topic for one NGO. Events on it
// carry no payload; they are a signal to re-fetch the ledger.
func WalletUpdateTopic(ngoID string) string {
	return TopicWalletUpdatePrefix + ngoID
}

// Event is one push notification. ID de-duplicates redeliveries; Payload may
// be empty for signal-only topics.
type Event struct {
	ID      string          `json:"id"`
	Topic   string          `json:"topic"`
	At      time.Time       `json:"at"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Handler consumes events for one topic. Handlers must not block; slow
// consumers are disconnected by the transport.
type Handler func(Event)

// Transport is a push subscription surface. Implementations re-establish the
// underlying connection themselves; subscriptions survive reconnects.
type Transport interface {
	// Subscribe registers a handler for a topic and returns an unsubscribe
	// function. Unsubscribing twice is a no-op.
	Subscribe(topic string, handler Handler) (func(), error)

	// Connected reports whether the underlying connection is currently up.
	// While false, events may be missed and polling is the only source.
	Connected() bool

	// Close tears the transport down. All subscriptions are dropped.
	Close() error
}
