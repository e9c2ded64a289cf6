// internal/socket/client.go
package socket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket connection constants
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer (4KB)
	maxMessageSize int64 = 4096
)

// Client is one WebSocket connection bound to an authenticated user.
type Client struct {
	ID       string
	UserID   string
	Conn     *websocket.Conn
	Send     chan []byte
	registry *Registry

	mu     sync.Mutex
	closed bool
}

// ClientMessage represents an incoming message from a client
type ClientMessage struct {
	Action  string                 `json:"action"`
	To      string                 `json:"to,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Deliver queues data for the connection without blocking the caller.
// Returns false once the connection is torn down or its buffer is full;
// a dispatcher may still hold this channel briefly after disconnect.
func (c *Client) Deliver(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// ReadPump pumps messages from the WebSocket connection and tears the
// session down on disconnect.
func (c *Client) ReadPump() {
	defer func() {
		c.registry.Unregister(c.UserID, c)
		c.closeSend()
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Client] WebSocket error for user %s: %v", c.UserID, err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps queued messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Client) handleMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("[Client] Error parsing message from user %s: %v", c.UserID, err)
		return
	}

	switch msg.Action {
	case "chat":
		c.relayChat(msg)

	case "ping":
		c.sendPong()

	case "pong":
		// Keepalive only.

	default:
		log.Printf("[Client] Unknown action: %s from user: %s", msg.Action, c.UserID)
	}
}

// relayChat pushes a transient chat payload to the recipient's live
// channel. Nothing is persisted here; stored messages travel through the
// message service independently. An offline recipient simply misses it.
func (c *Client) relayChat(msg ClientMessage) {
	if msg.To == "" {
		return
	}

	payload := msg.Payload
	if payload == nil {
		payload = make(map[string]interface{})
	}
	payload["senderId"] = c.UserID

	data, err := MarshalEvent(EventReceiveMessage, payload)
	if err != nil {
		log.Printf("[Client] Error marshaling chat relay: %v", err)
		return
	}

	recipient, ok := c.registry.Lookup(msg.To)
	if !ok {
		return
	}
	if !recipient.Deliver(data) {
		log.Printf("[Client] Chat relay dropped: recipient=%s buffer full", msg.To)
	}
}

func (c *Client) sendPong() {
	data, _ := MarshalEvent(EventPong, map[string]interface{}{
		"time": time.Now().Unix(),
	})

	if !c.Deliver(data) {
		log.Printf("[Client] Failed to send pong to user %s", c.UserID)
	}
}
