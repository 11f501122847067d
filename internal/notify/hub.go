package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"unistay-inbox/pkg/logger"
)

// client is one WebSocket connection of one user. A user can hold several
// (multiple tabs).
type client struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans notices out to the WebSocket connections of the addressed user.
// Delivery is best-effort: a client whose send buffer is full is dropped
// rather than allowed to block an action.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
	logger  *logger.Logger
}

func NewHub(l *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		logger:  l,
	}
}

// Notify implements Notifier.
func (h *Hub) Notify(ctx context.Context, notice Notice) {
	payload, err := json.Marshal(notice)
	if err != nil {
		return
	}

	// Sends happen under the read lock and channel close under the write
	// lock, so a send can never race a close.
	h.mu.RLock()
	var stalled []*client
	for c := range h.clients[notice.UserID] {
		select {
		case c.send <- payload:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stalled {
		h.drop(c)
	}
}

// Serve registers the connection and pumps notices to it until the peer goes
// away. Blocks; call from the upgrade handler's goroutine.
func (h *Hub) Serve(conn *websocket.Conn, userID string) {
	c := &client{
		id:     uuid.New().String(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	c.readPump(h)
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if set, ok := h.clients[c.userID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.clients, c.userID)
			}
			close(c.send)
		}
	}
	h.mu.Unlock()
}

// ConnectionCount reports how many connections a user currently holds.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (c *client) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
}

// readPump discards inbound frames; the stream is push-only. Its real job is
// detecting the peer closing the connection.
func (c *client) readPump(h *Hub) {
	defer h.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
