package handlers

import (
	"net/http"

	"credmatrix_backend/internal/services"
	"credmatrix_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PortfolioHandler struct {
	*BaseHandler
	portfolioService   services.PortfolioService
	achievementService services.AchievementService
}

func NewPortfolioHandler(base *BaseHandler, portfolioService services.PortfolioService, achievementService services.AchievementService) *PortfolioHandler {
	return &PortfolioHandler{
		BaseHandler:        base,
		portfolioService:   portfolioService,
		achievementService: achievementService,
	}
}

func (h *PortfolioHandler) Get(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	portfolio, err := h.portfolioService.Get(c.Request.Context(), h.GetDB(c), learnerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, portfolio)
}

func (h *PortfolioHandler) Update(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePortfolioRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	portfolio, err := h.portfolioService.Update(c.Request.Context(), h.GetDB(c), learnerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, portfolio)
}

func (h *PortfolioHandler) Share(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	share, err := h.portfolioService.Share(c.Request.Context(), h.GetDB(c), learnerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, share)
}

func (h *PortfolioHandler) Unshare(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	portfolio, err := h.portfolioService.Unshare(c.Request.Context(), h.GetDB(c), learnerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, portfolio)
}

func (h *PortfolioHandler) Analytics(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	analytics, err := h.portfolioService.Analytics(c.Request.Context(), h.GetDB(c), learnerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// ViewPublic is unauthenticated; every call counts as one view.
func (h *PortfolioHandler) ViewPublic(c *gin.Context) {
	token := c.Param("token")

	portfolio, err := h.portfolioService.ViewByToken(c.Request.Context(), h.GetDB(c), token, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, portfolio)
}

// --- Achievements ---

func (h *PortfolioHandler) CreateAchievement(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAchievementRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	achievement, err := h.achievementService.Create(c.Request.Context(), h.GetDB(c), learnerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, achievement)
}

func (h *PortfolioHandler) ListAchievements(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	achievements, err := h.achievementService.ListMine(c.Request.Context(), h.GetDB(c), learnerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

func (h *PortfolioHandler) UpdateAchievement(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAchievementRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	achievement, err := h.achievementService.Update(c.Request.Context(), h.GetDB(c), learnerID, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, achievement)
}

func (h *PortfolioHandler) DeleteAchievement(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.achievementService.Delete(c.Request.Context(), h.GetDB(c), learnerID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
