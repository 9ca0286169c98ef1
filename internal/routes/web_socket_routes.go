package routes

import (
	"github.com/gin-gonic/gin"

	"tourhub/internal/controllers"
)

// WebSocketRoutes sits outside /api/v1; the handshake authenticates with a
// token query parameter.
func WebSocketRoutes(r *gin.Engine, ctl *controllers.Controller) {
	ws := r.Group("/ws")
	ws.GET("/coordination", ctl.HandleCoordinationWebSocket)
}
