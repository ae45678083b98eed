package endpoints

import (
	"api"
	"api/internal/realtime"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
)

// WebSocketHandler sets up the realtime endpoint. The socket carries no
// identity; clients declare their room with their first message.
func WebSocketHandler(router *graceful.Graceful, hub *realtime.Hub) {
	router.GET("/ws", func(c *gin.Context) {
		realtime.ServeWS(hub, api.Logger, c.Writer, c.Request)
	})
}
