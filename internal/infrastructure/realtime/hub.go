// Package realtime keeps the notification websocket connections of this
// instance and writes frames to them.
package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/coachhub/coachhub/internal/shared/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 256
)

// ErrSendChannelFull is reported when a client cannot keep up.
var ErrSendChannelFull = errors.New("send channel full")

// Client is one websocket connection of a user.
type Client struct {
	UserID      string
	ConnectedAt time.Time

	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Hub tracks every open connection by user. A user may have several.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	logger  logger.Interface
}

func NewHub(log logger.Interface) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		logger:  log,
	}
}

// Register adds conn for userID. Call Serve to run its pumps.
func (h *Hub) Register(userID string, conn *websocket.Conn) *Client {
	c := &Client{
		UserID:      userID,
		ConnectedAt: time.Now(),
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	set, ok := h.clients[userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[userID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Infow("notification websocket connected", "user_id", userID)
	return c
}

// Unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.UserID]
	if ok {
		if _, present := set[c]; present {
			delete(set, c)
			if len(set) == 0 {
				delete(h.clients, c.UserID)
			}
		} else {
			ok = false
		}
	}
	h.mu.Unlock()

	c.close()
	if ok {
		h.logger.Infow("notification websocket disconnected", "user_id", c.UserID)
	}
}

// SendToUser queues frame on every connection of userID and returns how many
// took it. Connections whose buffer is full are dropped.
func (h *Hub) SendToUser(userID string, frame []byte) int {
	var slow []*Client
	delivered := 0

	h.mu.RLock()
	for c := range h.clients[userID] {
		select {
		case c.send <- frame:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warnw("dropping slow notification client", "user_id", userID, "error", ErrSendChannelFull)
		h.Unregister(c)
	}
	return delivered
}

// Push satisfies the notifier's Pusher for single-instance deployments.
func (h *Hub) Push(_ context.Context, userID string, frame []byte) error {
	h.SendToUser(userID, frame)
	return nil
}

// IsConnected reports whether userID has an open connection here.
func (h *Hub) IsConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// Close drops every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	all := h.clients
	h.clients = make(map[string]map[*Client]struct{})
	h.mu.Unlock()

	for _, set := range all {
		for c := range set {
			c.close()
		}
	}
}

// Serve runs the write pump in the background and the read pump until the
// connection ends.
func (h *Hub) Serve(c *Client) {
	go h.writePump(c)
	h.readPump(c)
}

// readPump only services control frames; clients do not send data.
func (h *Hub) readPump(c *Client) {
	defer func() {
		h.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warnw("notification websocket read error", "user_id", c.UserID, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				h.logger.Warnw("failed to write notification frame", "user_id", c.UserID, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
