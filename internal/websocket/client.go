package websocket

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum inbound frame size.
	maxMessageSize = 64 * 1024

	sendBufferSize = 256
)

// Heartbeat controls how often the server pings and how long it waits for
// any sign of life before closing the connection.
type Heartbeat struct {
	PingInterval time.Duration
	PongTimeout  time.Duration
}

// Client is a single realtime connection bound to an authenticated user.
type Client struct {
	ID       string
	UserID   string
	Username string
	Send     chan []byte

	hub       *Hub
	conn      *websocket.Conn
	heartbeat Heartbeat
}

// NewClient wraps an upgraded connection for userID.
func NewClient(hub *Hub, conn *websocket.Conn, userID, username string, hb Heartbeat) *Client {
	return &Client{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  username,
		Send:      make(chan []byte, sendBufferSize),
		hub:       hub,
		conn:      conn,
		heartbeat: hb,
	}
}

// ReadPump reads frames until the connection fails or goes silent for longer
// than the pong timeout, passing each frame to handle. It unregisters the
// client on return.
func (c *Client) ReadPump(handle func(*Client, []byte)) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.heartbeat.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.heartbeat.PongTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("socket_id", c.ID).Msg("Websocket closed unexpectedly")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(c.heartbeat.PongTimeout))
		handle(c, data)
	}
}

// WritePump drains the send channel to the connection and pings the peer on
// every heartbeat tick. It exits when the hub closes the send channel.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.heartbeat.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
