package push

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// pushServer is a minimal socket endpoint the transport dials in tests. It
// keeps every accepted connection so tests can write events or drop the link.
type pushServer struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns []*websocket.Conn
}

func newPushServer(t *testing.T) *pushServer {
	s := &pushServer{}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
	}))
	t.Cleanup(func() {
		// Hijacked connections must be closed before the server can shut down.
		s.mu.Lock()
		for _, conn := range s.conns {
			conn.Close()
		}
		s.mu.Unlock()
		s.srv.Close()
	})
	return s
}

func (s *pushServer) url() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

// conn waits for the i-th accepted connection.
func (s *pushServer) conn(t *testing.T, i int) *websocket.Conn {
	t.Helper()
	var conn *websocket.Conn
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if len(s.conns) > i {
			conn = s.conns[i]
			return true
		}
		return false
	}, time.Second, 5*time.Millisecond, "connection %d never arrived", i)
	return conn
}

func testConfig(url string) WebSocketConfig {
	cfg := DefaultWebSocketConfig(url)
	cfg.ReconnectWait = 10 * time.Millisecond
	return cfg
}

func TestWebSocketFanOutAndUnsubscribe(t *testing.T) {
	server := newPushServer(t)
	transport := NewWebSocketTransport(testConfig(server.url()), nil)
	defer transport.Close()

	var alphaOne, alphaTwo, beta atomic.Int64
	unsubscribe, err := transport.Subscribe("alpha", func(Event) { alphaOne.Add(1) })
	require.NoError(t, err)
	_, err = transport.Subscribe("alpha", func(Event) { alphaTwo.Add(1) })
	require.NoError(t, err)
	_, err = transport.Subscribe("beta", func(Event) { beta.Add(1) })
	require.NoError(t, err)

	conn := server.conn(t, 0)
	require.NoError(t, conn.WriteJSON(Event{ID: "e1", Topic: "alpha"}))

	require.Eventually(t, func() bool {
		return alphaOne.Load() == 1 && alphaTwo.Load() == 1
	}, time.Second, 5*time.Millisecond, "both alpha handlers receive")
	require.Zero(t, beta.Load())

	unsubscribe()
	unsubscribe() // second call is a no-op

	require.NoError(t, conn.WriteJSON(Event{ID: "e2", Topic: "alpha"}))
	require.Eventually(t, func() bool { return alphaTwo.Load() == 2 }, time.Second, 5*time.Millisecond)
	require.Equal(t, int64(1), alphaOne.Load())
}

func TestWebSocketRedialKeepsSubscriptions(t *testing.T) {
	server := newPushServer(t)
	transport := NewWebSocketTransport(testConfig(server.url()), nil)
	defer transport.Close()

	var got atomic.Int64
	_, err := transport.Subscribe("alpha", func(Event) { got.Add(1) })
	require.NoError(t, err)

	first := server.conn(t, 0)
	require.Eventually(t, func() bool { return transport.Connected() }, time.Second, 5*time.Millisecond)

	// Drop the link; the transport redials on its own.
	first.Close()
	second := server.conn(t, 1)
	require.Eventually(t, func() bool { return transport.Connected() }, time.Second, 5*time.Millisecond)

	// The registration made before the drop still receives events.
	require.NoError(t, second.WriteJSON(Event{ID: "e1", Topic: "alpha"}))
	require.Eventually(t, func() bool { return got.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestWebSocketAssignsMissingEventID(t *testing.T) {
	server := newPushServer(t)
	transport := NewWebSocketTransport(testConfig(server.url()), nil)
	defer transport.Close()

	var mu sync.Mutex
	var ids []string
	_, err := transport.Subscribe("alpha", func(e Event) {
		mu.Lock()
		ids = append(ids, e.ID)
		mu.Unlock()
	})
	require.NoError(t, err)

	conn := server.conn(t, 0)
	require.NoError(t, conn.WriteJSON(Event{Topic: "alpha"}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ids) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	require.NotEmpty(t, ids[0])
	mu.Unlock()
}

func TestWebSocketCloseStopsRedial(t *testing.T) {
	server := newPushServer(t)
	transport := NewWebSocketTransport(testConfig(server.url()), nil)

	server.conn(t, 0)
	require.Eventually(t, func() bool { return transport.Connected() }, time.Second, 5*time.Millisecond)

	require.NoError(t, transport.Close())
	require.False(t, transport.Connected())

	// Close is idempotent.
	require.NoError(t, transport.Close())
}
