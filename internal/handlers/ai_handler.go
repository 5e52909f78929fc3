package handlers

import (
	"net/http"

	"credmatrix_backend/internal/services"
	"credmatrix_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// AIHandler serves skill extraction, level prediction, skill-gap analysis
// and career recommendations. Adapter failures never reach the client.
type AIHandler struct {
	*BaseHandler
	skillGapService services.SkillGapService
}

func NewAIHandler(base *BaseHandler, skillGapService services.SkillGapService) *AIHandler {
	return &AIHandler{
		BaseHandler:     base,
		skillGapService: skillGapService,
	}
}

func (h *AIHandler) ExtractSkills(c *gin.Context) {
	var req dto.AIExtractSkillsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, h.skillGapService.ExtractSkills(c.Request.Context(), &req))
}

func (h *AIHandler) PredictLevel(c *gin.Context) {
	var req dto.AIPredictLevelRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, h.skillGapService.PredictLevel(c.Request.Context(), &req))
}

func (h *AIHandler) SkillGap(c *gin.Context) {
	userID, role, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.SkillGapRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	analysis, err := h.skillGapService.Analyze(c.Request.Context(), h.GetDB(c), userID, role, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (h *AIHandler) CareerRecommendations(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.skillGapService.CareerRecommendations(c.Request.Context(), h.GetDB(c), learnerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
