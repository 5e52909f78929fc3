package routes

import (
	"credmatrix_backend/internal/handlers"
	"credmatrix_backend/internal/logger"
	"credmatrix_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Deps are the pieces the route groups need besides the handlers.
type Deps struct {
	Tokens  middleware.TokenParser
	Limiter middleware.Limiter
	WS      *handlers.WSHandler

	// FilesURL and FilesDir expose local storage to signed-in users. Empty
	// FilesDir means objects are served by the storage provider.
	FilesURL string
	FilesDir string
}

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты под /api/v1.
func RegisterRoutes(r *gin.Engine, h *handlers.AppHandlers, d Deps) {
	api := r.Group("/api/v1")
	authed := middleware.AuthMiddleware(d.Tokens)

	SetupPublicRoutes(api, h, d.Limiter)
	SetupCommonRoutes(api, h, authed)
	SetupLearnerRoutes(api, h, authed)
	SetupInstitutionRoutes(api, h, authed)
	SetupEmployerRoutes(api, h, authed)
	SetupAdminRoutes(api, h, authed)

	if d.FilesDir != "" && d.FilesURL != "" {
		r.Group(d.FilesURL, authed).Static("/", d.FilesDir)
	}
	if d.WS != nil {
		SetupWebSocketRoutes(api, d.WS)
	}
	logger.Info("routes registered", "routes", len(r.Routes()))
}
