package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/netops-backend-go/internal/websocket"
	"github.com/michaelayoade/netops-backend-go/pkg/utils"
)

// WebSocketHandler upgrades the connection and attaches it to the hub
func (h *Handlers) WebSocketHandler(hub *websocket.Hub) gin.HandlerFunc {
	return websocket.HandleWebSocketGin(hub)
}

// WebSocketStats returns hub statistics
func (h *Handlers) WebSocketStats(c *gin.Context) {
	utils.SendSuccess(c, h.wsHub.GetStats())
}
