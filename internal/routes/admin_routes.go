package routes

import (
	"credmatrix_backend/internal/auth"
	"credmatrix_backend/internal/handlers"
	"credmatrix_backend/internal/middleware"
	"credmatrix_backend/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupAdminRoutes(api *gin.RouterGroup, h *handlers.AppHandlers, authed gin.HandlerFunc) {
	admin := api.Group("/admin")
	admin.Use(authed, middleware.RequireRoles(models.UserRoleAdmin))

	users := admin.Group("/users")
	users.Use(middleware.RequirePermission(auth.PermUsersAdmin))
	{
		users.GET("", h.UserHandler.List)
		users.GET("/:id", h.UserHandler.Get)
		users.PATCH("/:id/active", h.UserHandler.SetActive)
	}

	admin.GET("/stats", middleware.RequirePermission(auth.PermStatsRead), h.UserHandler.Stats)

	credentials := admin.Group("/credentials")
	{
		credentials.GET("/:id", h.CredentialHandler.Get)
		credentials.POST("/bulk-verify", middleware.RequirePermission(auth.PermCredentialsVerify), h.CredentialHandler.BulkVerify)
		credentials.POST("/:id/verify", middleware.RequirePermission(auth.PermCredentialsVerify), h.CredentialHandler.Verify)
		credentials.POST("/:id/reject", middleware.RequirePermission(auth.PermCredentialsVerify), h.CredentialHandler.Reject)
		credentials.POST("/:id/expire", middleware.RequirePermission(auth.PermCredentialsExpire), h.CredentialHandler.Expire)
	}
}
