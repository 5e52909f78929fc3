package routes

import (
	"credmatrix_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupWebSocketRoutes registers the push channel. The handler authenticates
// from the query string itself.
func SetupWebSocketRoutes(api *gin.RouterGroup, wsHandler *handlers.WSHandler) {
	api.GET("/ws", wsHandler.Connect)
}
