package fanout

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/charleschow/hockey-sim/internal/events"
	"github.com/charleschow/hockey-sim/internal/telemetry"
)

const (
	clientSendBuf = 256
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

type watcher struct {
	batch string
	conn  *websocket.Conn
	send  chan []byte
	done  chan struct{}
}

// Server fans out simulation events to connected WebSocket watchers.
type Server struct {
	mu      sync.Mutex
	clients map[*watcher]struct{}
}

func NewServer(bus *events.Bus) *Server {
	s := &Server{
		clients: make(map[*watcher]struct{}),
	}
	bus.SubscribeAll(s.forward)
	return s
}

// forward is called on the publisher's goroutine. It serializes the event
// and enqueues it to matching watchers' send channels (non-blocking).
// Per-season events are dropped for slow watchers; the batch summary never
// is, since it arrives after the last season.
func (s *Server) forward(evt events.Event) error {
	data, err := MarshalEvent(evt)
	if err != nil {
		telemetry.Warnf("fanout: marshal error: %v", err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		if c.batch != "" && c.batch != evt.BatchID {
			continue
		}
		select {
		case c.send <- data:
		default:
			telemetry.Warnf("fanout: dropping %s for slow watcher", evt.Type)
		}
	}
	return nil
}

// Clients reports the number of connected watchers.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// HandleWS is the HTTP handler for WebSocket upgrade requests.
// Watchers may pass ?batch=<id> to follow a single batch.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.Warnf("fanout: upgrade failed: %v", err)
		return
	}

	c := &watcher{
		batch: r.URL.Query().Get("batch"),
		conn:  conn,
		send:  make(chan []byte, clientSendBuf),
		done:  make(chan struct{}),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	telemetry.Metrics.FanoutClients.Inc()

	telemetry.Infof("fanout: watcher connected from %s", r.RemoteAddr)

	go s.writePump(c)
	go s.readPump(c)
}

// writePump drains the watcher's send channel and writes to the WS connection.
// It owns the watcher lifecycle: on exit it removes the watcher from the map
// (so forward never sends to a stale channel) and closes the connection.
func (s *Server) writePump(c *watcher) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.removeClient(c)
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				telemetry.Warnf("fanout: write error: %v", err)
				return
			}
		case <-c.done:
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump keeps the connection alive by reading pongs / close frames.
// On exit it signals writePump via c.done (never closes c.send).
func (s *Server) readPump(c *watcher) {
	defer close(c.done)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
	}
}

func (s *Server) removeClient(c *watcher) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	telemetry.Metrics.FanoutClients.Dec()
	telemetry.Infof("fanout: watcher disconnected")
}

// Handler returns the mux serving /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	return mux
}

// ListenAndServe starts the fanout WebSocket server.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	telemetry.Infof("fanout: server listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}
