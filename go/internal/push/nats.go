package push

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSConfig holds configuration for the NATS push transport.
type NATSConfig struct {
	URL           string
	SubjectPrefix string // e.g. "bidforhope.events"
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSConfig returns default NATS transport configuration.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		SubjectPrefix: "bidforhope.events",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// NATSTransport consumes backend events bridged over NATS. Deployments that
// relay the socket channel through a broker use this in place of the direct
// WebSocket transport; the engine sees the same Transport surface.
type NATSTransport struct {
	nc     *nats.Conn
	config NATSConfig

	mu   sync.Mutex
	subs map[string]*nats.Subscription // subscription id -> nats sub
}

// NewNATSTransport connects to NATS with the reconnect discipline the broker
// needs: unlimited retries, disconnect and reconnect logging.
func NewNATSTransport(config NATSConfig) (*NATSTransport, error) {
	opts := []nats.Option{
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS push channel disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS push channel reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS push channel error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSTransport{
		nc:     nc,
		config: config,
		subs:   make(map[string]*nats.Subscription),
	}, nil
}

// subjectFor maps a push topic to a NATS subject. The colon in wallet topics
// is not a legal subject character, so it becomes a token separator.
func (t *NATSTransport) subjectFor(topic string) string {
	return t.config.SubjectPrefix + "." + strings.ReplaceAll(topic, ":", ".")
}

// Subscribe registers a handler for a topic.
func (t *NATSTransport) Subscribe(topic string, handler Handler) (func(), error) {
	sub, err := t.nc.Subscribe(t.subjectFor(topic), func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Error().Err(err).Str("subject", msg.Subject).Msg("failed to unmarshal push event")
			return
		}
		if event.Topic == "" {
			event.Topic = topic
		}
		if event.ID == "" {
			event.ID = uuid.New().String()
		}
		handler(event)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	id := uuid.New().String()
	t.mu.Lock()
	t.subs[id] = sub
	t.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if s, ok := t.subs[id]; ok {
				if err := s.Unsubscribe(); err != nil {
					log.Error().Err(err).Str("topic", topic).Msg("failed to unsubscribe")
				}
				delete(t.subs, id)
			}
		})
	}
	return unsubscribe, nil
}

// Connected reports whether the NATS connection is currently up.
func (t *NATSTransport) Connected() bool {
	return t.nc.IsConnected()
}

// Close drains the connection and drops all subscriptions.
func (t *NATSTransport) Close() error {
	t.nc.Close()
	return nil
}
