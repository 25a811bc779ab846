package gateway

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/terrence3333/Mindconnect-Demo/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebSocketClient implements Client over a gorilla/websocket connection.
type WebSocketClient struct {
	User    *models.User
	Conn    *websocket.Conn
	Session *Session
	Send    chan models.OutboundEvent

	mu     sync.Mutex
	closed bool
}

func (c *WebSocketClient) UserID() string   { return c.User.ID }
func (c *WebSocketClient) UserName() string { return c.User.FullName }

// Deliver queues an event for the write pump without blocking. Delivery to a
// closed client reports false; the read loop may still be winding down after
// the hub dropped the client.
func (c *WebSocketClient) Deliver(ev models.OutboundEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- ev:
		return true
	default:
		return false
	}
}

// Close shuts the Send channel, which stops the write pump, and closes the
// underlying socket so the read pump ends too. Called by the hub when the
// client is removed; safe to call more than once.
func (c *WebSocketClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	c.Conn.Close()
}

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// readPump reads inbound events off the socket and hands them to the session
// one at a time, preserving the client's own event order. Any read error,
// explicit close or liveness timeout ends the loop and tears the session down.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Session.Disconnect()
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading from client %s: %v", c.User.ID, err)
			}
			break
		}

		var ev models.InboundEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			log.Printf("Error decoding event from client %s: %v", c.User.ID, err)
			c.Deliver(models.OutboundEvent{Event: models.EventError, Error: "malformed event"})
			continue
		}

		c.Session.HandleEvent(ev)
	}
}

// writePump drains the Send channel onto the socket and keeps the connection
// alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed by the hub.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("Error encoding event for client %s: %v", c.User.ID, err)
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
