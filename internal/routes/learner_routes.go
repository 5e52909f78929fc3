package routes

import (
	"credmatrix_backend/internal/auth"
	"credmatrix_backend/internal/handlers"
	"credmatrix_backend/internal/middleware"
	"credmatrix_backend/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupLearnerRoutes(api *gin.RouterGroup, h *handlers.AppHandlers, authed gin.HandlerFunc) {
	learner := api.Group("/learner")
	learner.Use(authed, middleware.RequireRoles(models.UserRoleLearner))

	credentials := learner.Group("/credentials")
	{
		credentials.POST("", middleware.RequirePermission(auth.PermCredentialsWrite), h.CredentialHandler.Create)
		credentials.GET("", h.CredentialHandler.ListMine)
		credentials.GET("/:id", h.CredentialHandler.Get)
		credentials.PUT("/:id", h.CredentialHandler.Update)
		credentials.DELETE("/:id", h.CredentialHandler.Delete)
	}

	portfolio := learner.Group("/portfolio")
	portfolio.Use(middleware.RequirePermission(auth.PermPortfolio))
	{
		portfolio.GET("", h.PortfolioHandler.Get)
		portfolio.PUT("", h.PortfolioHandler.Update)
		portfolio.POST("/share", h.PortfolioHandler.Share)
		portfolio.DELETE("/share", h.PortfolioHandler.Unshare)
		portfolio.GET("/analytics", h.PortfolioHandler.Analytics)
	}

	achievements := learner.Group("/achievements")
	{
		achievements.POST("", h.PortfolioHandler.CreateAchievement)
		achievements.GET("", h.PortfolioHandler.ListAchievements)
		achievements.PUT("/:id", h.PortfolioHandler.UpdateAchievement)
		achievements.DELETE("/:id", h.PortfolioHandler.DeleteAchievement)
	}

	jobs := learner.Group("/jobs")
	{
		jobs.GET("", h.JobHandler.ListActive)
		jobs.GET("/recommended", h.JobHandler.Recommended)
		jobs.GET("/:id", h.JobHandler.Get)
		jobs.POST("/:id/apply", middleware.RequirePermission(auth.PermJobsApply), h.JobHandler.Apply)
	}
	learner.GET("/applications", h.JobHandler.MyApplications)
	learner.GET("/invitations", h.JobHandler.MyInvitations)
}
