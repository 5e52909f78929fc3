package handlers

import (
	"net/http"

	"credmatrix_backend/internal/services"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type CredentialHandler struct {
	*BaseHandler
	credentialService services.CredentialService
}

func NewCredentialHandler(base *BaseHandler, credentialService services.CredentialService) *CredentialHandler {
	return &CredentialHandler{
		BaseHandler:       base,
		credentialService: credentialService,
	}
}

// Create handles both learner uploads and institution issues. The body is
// multipart with a single "file" field.
func (h *CredentialHandler) Create(c *gin.Context) {
	userID, role, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateCredentialRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrFileRequired)
		return
	}

	credential, err := h.credentialService.Create(c.Request.Context(), h.GetDB(c), userID, role, &req, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, credential)
}

func (h *CredentialHandler) Get(c *gin.Context) {
	userID, role, ok := h.GetCaller(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	credential, err := h.credentialService.Get(c.Request.Context(), h.GetDB(c), userID, role, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, credential)
}

func (h *CredentialHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var q dto.CredentialListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	list, err := h.credentialService.ListMine(c.Request.Context(), h.GetDB(c), userID, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *CredentialHandler) ListIssued(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var q dto.CredentialListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	list, err := h.credentialService.ListIssued(c.Request.Context(), h.GetDB(c), userID, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *CredentialHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCredentialRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	credential, err := h.credentialService.Update(c.Request.Context(), h.GetDB(c), userID, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, credential)
}

func (h *CredentialHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.credentialService.Delete(c.Request.Context(), h.GetDB(c), userID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CredentialHandler) Verify(c *gin.Context) {
	userID, role, ok := h.GetCaller(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	credential, err := h.credentialService.Verify(c.Request.Context(), h.GetDB(c), userID, role, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, credential)
}

func (h *CredentialHandler) Reject(c *gin.Context) {
	userID, role, ok := h.GetCaller(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.RejectCredentialRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	credential, err := h.credentialService.Reject(c.Request.Context(), h.GetDB(c), userID, role, id, req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, credential)
}

// BulkVerify always answers 200; outcomes are reported per id.
func (h *CredentialHandler) BulkVerify(c *gin.Context) {
	userID, role, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.BulkVerifyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.credentialService.BulkVerify(c.Request.Context(), h.GetDB(c), userID, role, req.CredentialIDs)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CredentialHandler) Expire(c *gin.Context) {
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	credential, err := h.credentialService.Expire(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, credential)
}

func (h *CredentialHandler) VerifyByNumber(c *gin.Context) {
	var q dto.VerifyByNumberQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	result, err := h.credentialService.VerifyByNumber(c.Request.Context(), h.GetDB(c), q.Number)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CredentialHandler) VerifyByFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrFileRequired)
		return
	}

	matches, err := h.credentialService.VerifyByFile(c.Request.Context(), h.GetDB(c), file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
