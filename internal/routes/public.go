package routes

import (
	"credmatrix_backend/internal/handlers"
	"credmatrix_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPublicRoutes registers the unauthenticated endpoints. Both groups
// share the rate limiter when one is configured.
func SetupPublicRoutes(api *gin.RouterGroup, h *handlers.AppHandlers, limiter middleware.Limiter) {
	auth := api.Group("/auth")
	public := api.Group("/public")
	if limiter != nil {
		auth.Use(middleware.RateLimit(limiter, "auth"))
		public.Use(middleware.RateLimit(limiter, "public"))
	}
	{
		auth.POST("/register", h.AuthHandler.Register)
		auth.POST("/login", h.AuthHandler.Login)
		auth.POST("/refresh", h.AuthHandler.RefreshToken)
		auth.POST("/logout", h.AuthHandler.Logout)
	}
	{
		public.GET("/portfolio/:token", h.PortfolioHandler.ViewPublic)
		public.GET("/credentials/verify", h.CredentialHandler.VerifyByNumber)
		public.POST("/credentials/verify", h.CredentialHandler.VerifyByFile)
	}
}
