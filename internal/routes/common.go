package routes

import (
	"credmatrix_backend/internal/handlers"
	"credmatrix_backend/internal/middleware"
	"credmatrix_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupCommonRoutes registers endpoints open to every authenticated role.
func SetupCommonRoutes(api *gin.RouterGroup, h *handlers.AppHandlers, authed gin.HandlerFunc) {
	me := api.Group("/auth/me")
	me.Use(authed)
	{
		me.GET("", h.AuthHandler.Me)
		me.PUT("", h.AuthHandler.UpdateProfile)
	}

	notifications := api.Group("/notifications")
	notifications.Use(authed)
	{
		notifications.GET("", h.NotificationHandler.List)
		notifications.GET("/unread-count", h.NotificationHandler.UnreadCount)
		notifications.PUT("/read-all", h.NotificationHandler.MarkAllRead)
		notifications.PUT("/:id/read", h.NotificationHandler.MarkRead)
		notifications.DELETE("/:id", h.NotificationHandler.Delete)
	}

	ai := api.Group("/ai")
	ai.Use(authed)
	{
		ai.POST("/extract-skills", h.AIHandler.ExtractSkills)
		ai.POST("/predict-level", h.AIHandler.PredictLevel)
		ai.POST("/skill-gap", h.AIHandler.SkillGap)
		ai.GET("/career-recommendations",
			middleware.RequireRoles(models.UserRoleLearner), h.AIHandler.CareerRecommendations)
	}
}
