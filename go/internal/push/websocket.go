package push

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// WebSocketConfig holds configuration for the WebSocket push transport.
type WebSocketConfig struct {
	URL            string
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	ReconnectWait  time.Duration // base delay between redial attempts
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns default WebSocket transport configuration.
func DefaultWebSocketConfig(url string) WebSocketConfig {
	return WebSocketConfig{
		URL:            url,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		ReconnectWait:  2 * time.Second,
		MaxMessageSize: 32 * 1024,
	}
}

// WebSocketTransport consumes the backend's socket channel and fans events
// out to per-topic handlers. On disconnect it redials silently; subscribers
// keep their registrations across reconnects.
type WebSocketTransport struct {
	config WebSocketConfig
	clock  clockwork.Clock

	mu        sync.RWMutex
	handlers  map[string]map[string]Handler // topic -> subscription id -> handler
	conn      *websocket.Conn
	connected bool
	closed    bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewWebSocketTransport dials the push channel and starts the read loop.
// The initial dial happening in the background means construction never
// blocks; until the first connect succeeds, Connected reports false.
func NewWebSocketTransport(config WebSocketConfig, clock clockwork.Clock) *WebSocketTransport {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	t := &WebSocketTransport{
		config:   config,
		clock:    clock,
		handlers: make(map[string]map[string]Handler),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go t.run(ctx)
	return t
}

// Subscribe registers a handler for a topic.
func (t *WebSocketTransport) Subscribe(topic string, handler Handler) (func(), error) {
	id := uuid.New().String()

	t.mu.Lock()
	if t.handlers[topic] == nil {
		t.handlers[topic] = make(map[string]Handler)
	}
	t.handlers[topic][id] = handler
	t.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if subs, ok := t.handlers[topic]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(t.handlers, topic)
				}
			}
		})
	}
	return unsubscribe, nil
}

// Connected reports whether the socket is currently up.
func (t *WebSocketTransport) Connected() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.connected
}

// Close stops the read loop and drops all subscriptions. The current
// connection is closed directly so a blocked read returns immediately.
func (t *WebSocketTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	conn := t.conn
	t.mu.Unlock()

	t.cancel()
	if conn != nil {
		conn.Close()
	}
	<-t.done
	return nil
}

// run owns the dial/read/redial cycle for the life of the transport.
func (t *WebSocketTransport) run(ctx context.Context) {
	defer close(t.done)

	for {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, t.config.URL, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Debug().Err(err).Str("url", t.config.URL).Msg("push dial failed, will retry")
			select {
			case <-ctx.Done():
				return
			case <-t.clock.After(t.config.ReconnectWait):
				continue
			}
		}

		t.mu.Lock()
		if t.closed {
			t.mu.Unlock()
			conn.Close()
			return
		}
		t.conn = conn
		t.connected = true
		t.mu.Unlock()
		log.Info().Str("url", t.config.URL).Msg("push channel connected")

		t.readPump(ctx, conn)

		t.mu.Lock()
		t.conn = nil
		t.connected = false
		t.mu.Unlock()
		conn.Close()
		if ctx.Err() != nil {
			return
		}
		log.Warn().Str("url", t.config.URL).Msg("push channel lost, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-t.clock.After(t.config.ReconnectWait):
		}
	}
}

// readPump reads events until the connection drops or ctx is cancelled.
func (t *WebSocketTransport) readPump(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadLimit(t.config.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(t.config.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(t.config.ReadTimeout))
		return nil
	})

	pingCtx, stopPing := context.WithCancel(ctx)
	defer stopPing()
	go t.pingLoop(pingCtx, conn)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Msg("unexpected push channel close")
			}
			return
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			log.Error().Err(err).Msg("failed to unmarshal push event")
			continue
		}
		if event.ID == "" {
			event.ID = uuid.New().String()
		}
		t.dispatch(event)
		conn.SetReadDeadline(time.Now().Add(t.config.ReadTimeout))
	}
}

func (t *WebSocketTransport) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := t.clock.NewTicker(t.config.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}
}

// dispatch fans one event out to the topic's handlers.
func (t *WebSocketTransport) dispatch(event Event) {
	t.mu.RLock()
	subs := t.handlers[event.Topic]
	targets := make([]Handler, 0, len(subs))
	for _, h := range subs {
		targets = append(targets, h)
	}
	t.mu.RUnlock()

	for _, h := range targets {
		h(event)
	}

	log.Debug().
		Str("topic", event.Topic).
		Str("event_id", event.ID).
		Int("handlers", len(targets)).
		Msg("push event dispatched")
}
