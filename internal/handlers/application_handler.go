package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atithi_backend/internal/services"
	"atithi_backend/internal/services/dto"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

// RegisterRoutes mounts the submission endpoints. The group is expected to
// carry optional auth: guests submit anonymously, customers get their
// submissions linked to their account.
func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup) {
	appGroup := r.Group("/applications")
	{
		appGroup.POST("/job", h.SubmitJob)
		appGroup.POST("/loan", h.SubmitLoan)
	}
}

func (h *ApplicationHandler) SubmitJob(c *gin.Context) {
	var req dto.SubmitJobApplicationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	app, err := h.applicationService.SubmitJob(c.Request.Context(), h.OptionalUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Application submitted successfully", app)
}

func (h *ApplicationHandler) SubmitLoan(c *gin.Context) {
	var req dto.SubmitLoanApplicationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	app, err := h.applicationService.SubmitLoan(c.Request.Context(), h.OptionalUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Application submitted successfully", app)
}
