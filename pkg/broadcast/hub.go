package broadcast

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub maintains active WebSocket subscribers for one symbol's event feed
// and fans out every broadcast message to all of them. A slow or dead
// client never blocks the publisher: its send buffer is bounded and a full
// buffer drops the message for that client only.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

// Client wraps one subscriber connection with its own outbound buffer.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

// NewClient wraps conn for registration with hub. bufferSize bounds how
// many pending messages a slow client may accumulate before being dropped.
func NewClient(hub *Hub, conn *websocket.Conn, bufferSize int) *Client {
	return &Client{hub: hub, conn: conn, send: make(chan []byte, bufferSize)}
}

// Register adds client to the fan-out set.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
}

// Unregister removes client and closes its send channel. Safe to call more
// than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// Broadcast marshals message and queues it on every registered client.
// Clients whose buffer is full are skipped, not blocked.
func (h *Hub) Broadcast(message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
		}
	}
	return nil
}

// ClientCount reports the number of currently registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// WritePump drains send to the underlying connection until it is closed or
// a write fails. Run it in its own goroutine per client.
func (c *Client) WritePump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// ReadPump discards inbound frames: this feed is publish-only, but the
// read loop must run so the connection's close/ping handling fires.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
