package endpoints

import (
	"api/internal/realtime"
	"net/http"
	"time"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
)

// StatusHandler sets up the system status route used by the admin panel's
// status indicator.
func StatusHandler(router *graceful.Graceful, hub *realtime.Hub) {
	router.GET("/api/v1/status", func(c *gin.Context) {
		stats := hub.GetStats()
		c.JSON(http.StatusOK, gin.H{
			"status":           "online",
			"connectedClients": stats.ConnectedClients,
			"rooms":            stats.RoomCounts,
			"uptime":           stats.Uptime,
			"timestamp":        time.Now(),
		})
	})
}
