package realtime

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Room membership is declared by the client and trusted; the
		// socket carries no identity.
		return true
	},
}

// ServeWS upgrades the HTTP connection and hands it to the hub. The client
// is roomless until it sends its join message.
func ServeWS(hub *Hub, logger zerolog.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to upgrade to WebSocket")
		return
	}

	client := NewClient(uuid.New().String(), hub, conn, logger)
	hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
