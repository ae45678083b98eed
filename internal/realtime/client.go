package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufSize    = 256
)

// Client represents a single WebSocket connection.
type Client struct {
	ID          string
	ConnectedAt time.Time

	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger zerolog.Logger

	// room is owned by the hub loop; never touched outside it.
	room Room
}

func NewClient(id string, hub *Hub, conn *websocket.Conn, logger zerolog.Logger) *Client {
	return &Client{
		ID:          id,
		ConnectedAt: time.Now(),
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufSize),
		room:        RoomNone,
		logger:      logger,
	}
}

// ReadPump reads commands from the WebSocket connection. The only commands
// a client sends are the room declarations.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug().Err(err).Str("clientId", c.ID).Msg("WebSocket read error")
			}
			break
		}

		var msg incomingMsg
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Warn().Err(err).Str("clientId", c.ID).Msg("Unreadable client message")
			continue
		}

		switch msg.Action {
		case ActionJoinAdmin:
			c.hub.join <- joinMsg{client: c, room: RoomAdmin}
		case ActionJoinPublic:
			c.hub.join <- joinMsg{client: c, room: RoomPublic}
		default:
			c.logger.Warn().Str("clientId", c.ID).Str("action", msg.Action).Msg("Unknown client action")
		}
	}
}

// WritePump writes events to the WebSocket connection.
func (c *Client) WritePump() {
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
