package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Subscribers only send control frames
	maxInboundSize = 4 * 1024

	// Reports queued per subscriber before it counts as slow
	sendBuffer = 64
)

// Client is one websocket subscriber. Only Run writes to the connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient registers a subscriber. A non-nil initial message is delivered
// ahead of every broadcast. It returns nil if the hub has been stopped.
func NewClient(hub *Hub, conn *websocket.Conn, initial []byte) *Client {
	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	if initial != nil {
		client.send <- initial
	}
	select {
	case hub.register <- client:
		return client
	case <-hub.done:
		return nil
	}
}

// Run writes queued messages until the peer goes away or the hub drops the
// client. It blocks, so call it from the websocket handler.
func (c *Client) Run() {
	go c.watch()

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.leave()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.leave()
				return
			}
		}
	}
}

// watch reads until the connection fails so disconnects and missed pongs
// are noticed, then unregisters the client.
func (c *Client) watch() {
	defer c.leave()

	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// leave asks the hub to drop the client. Safe to call more than once.
func (c *Client) leave() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}
