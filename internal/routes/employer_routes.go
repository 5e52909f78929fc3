package routes

import (
	"credmatrix_backend/internal/auth"
	"credmatrix_backend/internal/handlers"
	"credmatrix_backend/internal/middleware"
	"credmatrix_backend/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupEmployerRoutes(api *gin.RouterGroup, h *handlers.AppHandlers, authed gin.HandlerFunc) {
	employer := api.Group("/employer")
	employer.Use(authed, middleware.RequireRoles(models.UserRoleEmployer))

	jobs := employer.Group("/jobs")
	jobs.Use(middleware.RequirePermission(auth.PermJobsManage))
	{
		jobs.POST("", h.JobHandler.Create)
		jobs.GET("", h.JobHandler.ListMine)
		jobs.GET("/:id", h.JobHandler.Get)
		jobs.PUT("/:id", h.JobHandler.Update)
		jobs.PATCH("/:id/status", h.JobHandler.ChangeStatus)
		jobs.DELETE("/:id", h.JobHandler.Delete)
		jobs.GET("/:id/applicants", h.JobHandler.ListApplicants)
		jobs.POST("/:id/invitations", h.JobHandler.Invite)
		jobs.GET("/:id/matches", h.JobHandler.Matches)
	}

	pool := employer.Group("/talent-pool")
	pool.Use(middleware.RequirePermission(auth.PermTalentPool))
	{
		pool.GET("", h.TalentPoolHandler.Get)
		pool.POST("", h.TalentPoolHandler.Add)
		pool.PUT("/:learnerId", h.TalentPoolHandler.Update)
		pool.DELETE("/:learnerId", h.TalentPoolHandler.Remove)
	}

	// Employers only ever see verified credentials.
	employer.GET("/credentials/:id", h.CredentialHandler.Get)
}
