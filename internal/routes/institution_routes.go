package routes

import (
	"credmatrix_backend/internal/auth"
	"credmatrix_backend/internal/handlers"
	"credmatrix_backend/internal/middleware"
	"credmatrix_backend/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupInstitutionRoutes(api *gin.RouterGroup, h *handlers.AppHandlers, authed gin.HandlerFunc) {
	institution := api.Group("/institution")
	institution.Use(authed, middleware.RequireRoles(models.UserRoleInstitution))

	credentials := institution.Group("/credentials")
	{
		credentials.POST("", middleware.RequirePermission(auth.PermCredentialsWrite), h.CredentialHandler.Create)
		credentials.GET("", h.CredentialHandler.ListIssued)
		credentials.GET("/:id", h.CredentialHandler.Get)
	}

	verify := credentials.Group("")
	verify.Use(middleware.RequirePermission(auth.PermCredentialsVerify))
	{
		verify.POST("/bulk-verify", h.CredentialHandler.BulkVerify)
		verify.POST("/:id/verify", h.CredentialHandler.Verify)
		verify.POST("/:id/reject", h.CredentialHandler.Reject)
	}
}
