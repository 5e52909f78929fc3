package handlers

import (
	"net/http"

	"credmatrix_backend/internal/services"
	"credmatrix_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService      services.JobService
	matchingService services.MatchingService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService, matchingService services.MatchingService) *JobHandler {
	return &JobHandler{
		BaseHandler:     base,
		jobService:      jobService,
		matchingService: matchingService,
	}
}

// --- Employer ---

func (h *JobHandler) Create(c *gin.Context) {
	employerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), h.GetDB(c), employerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) Update(c *gin.Context) {
	employerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), h.GetDB(c), employerID, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) ChangeStatus(c *gin.Context) {
	employerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.JobStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.ChangeStatus(c.Request.Context(), h.GetDB(c), employerID, id, req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Delete(c *gin.Context) {
	employerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.jobService.Delete(c.Request.Context(), h.GetDB(c), employerID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *JobHandler) ListMine(c *gin.Context) {
	employerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var q dto.JobListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	list, err := h.jobService.ListMine(c.Request.Context(), h.GetDB(c), employerID, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *JobHandler) ListApplicants(c *gin.Context) {
	employerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	applicants, err := h.jobService.ListApplicants(c.Request.Context(), h.GetDB(c), employerID, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applicants": applicants})
}

func (h *JobHandler) Invite(c *gin.Context) {
	employerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.InviteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	invitation, err := h.jobService.Invite(c.Request.Context(), h.GetDB(c), employerID, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invitation)
}

// Matches ranks learners for one of the caller's jobs.
func (h *JobHandler) Matches(c *gin.Context) {
	userID, role, ok := h.GetCaller(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	matches, err := h.matchingService.MatchLearnersForJob(c.Request.Context(), h.GetDB(c), userID, role, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// --- Shared ---

func (h *JobHandler) Get(c *gin.Context) {
	userID, role, ok := h.GetCaller(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	job, err := h.jobService.Get(c.Request.Context(), h.GetDB(c), userID, role, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// --- Learner ---

func (h *JobHandler) ListActive(c *gin.Context) {
	var q dto.JobListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	list, err := h.jobService.ListActive(c.Request.Context(), h.GetDB(c), &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *JobHandler) Recommended(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	jobs, err := h.matchingService.RecommendJobsForLearner(c.Request.Context(), h.GetDB(c), learnerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *JobHandler) Apply(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	id, ok := RequireUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if c.Request.ContentLength != 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}

	application, err := h.jobService.Apply(c.Request.Context(), h.GetDB(c), learnerID, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, application)
}

func (h *JobHandler) MyApplications(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	applications, err := h.jobService.ListMyApplications(c.Request.Context(), h.GetDB(c), learnerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": applications})
}

func (h *JobHandler) MyInvitations(c *gin.Context) {
	learnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	invitations, err := h.jobService.ListInvitations(c.Request.Context(), h.GetDB(c), learnerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}
