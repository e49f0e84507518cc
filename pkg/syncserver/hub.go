package syncserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-go/routesync/pkg/app"
)

// MessageType identifies a websocket message.
type MessageType string

const (
	// MessageRoutes carries the full dehydrated state.
	MessageRoutes MessageType = "routes"
)

// Message is sent to followers.
type Message struct {
	Type  MessageType          `json:"type"`
	State *app.DehydratedState `json:"state"`
}

const writeTimeout = 5 * time.Second

// Hub manages follower connections. The most recent state is sent to every
// new follower before any later broadcast.
type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
	last     []byte
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub creates a hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the connection and keeps it until the follower leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	if h.last != nil {
		if err := writeMessage(conn, h.last); err != nil {
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
			return
		}
	}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("follower connected", "remote", r.RemoteAddr, "followers", count)

	// Followers only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
	h.logger.Debug("follower disconnected", "remote", r.RemoteAddr)
}

// Broadcast sends state to every follower and remembers it for new ones.
func (h *Hub) Broadcast(state *app.DehydratedState) error {
	data, err := json.Marshal(Message{Type: MessageRoutes, State: state})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = data
	for conn := range h.clients {
		if err := writeMessage(conn, data); err != nil {
			h.logger.Debug("dropping follower", "error", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
	return nil
}

// ClientCount returns the number of connected followers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every follower.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(h.clients, conn)
	}
}

func writeMessage(conn *websocket.Conn, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}
