package handlers

import (
	"net/http"

	"credmatrix_backend/internal/services"
	"credmatrix_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type TalentPoolHandler struct {
	*BaseHandler
	talentPoolService services.TalentPoolService
}

func NewTalentPoolHandler(base *BaseHandler, talentPoolService services.TalentPoolService) *TalentPoolHandler {
	return &TalentPoolHandler{
		BaseHandler:       base,
		talentPoolService: talentPoolService,
	}
}

func (h *TalentPoolHandler) Get(c *gin.Context) {
	employerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var q dto.PageQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	pool, err := h.talentPoolService.Get(c.Request.Context(), h.GetDB(c), employerID, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pool)
}

func (h *TalentPoolHandler) Add(c *gin.Context) {
	employerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddToTalentPoolRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	entry, err := h.talentPoolService.Add(c.Request.Context(), h.GetDB(c), employerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *TalentPoolHandler) Update(c *gin.Context) {
	employerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	learnerID, ok := RequireUUIDParam(c, "learnerId")
	if !ok {
		return
	}

	var req dto.UpdateTalentPoolEntryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	entry, err := h.talentPoolService.UpdateEntry(c.Request.Context(), h.GetDB(c), employerID, learnerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *TalentPoolHandler) Remove(c *gin.Context) {
	employerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	learnerID, ok := RequireUUIDParam(c, "learnerId")
	if !ok {
		return
	}

	if err := h.talentPoolService.Remove(c.Request.Context(), h.GetDB(c), employerID, learnerID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
