package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atithi_backend/internal/services"
	"atithi_backend/internal/services/dto"
)

type ContactHandler struct {
	*BaseHandler
	inquiryService services.InquiryService
}

func NewContactHandler(base *BaseHandler, inquiryService services.InquiryService) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    base,
		inquiryService: inquiryService,
	}
}

func (h *ContactHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/contact", h.Submit)
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	inquiry, err := h.inquiryService.Submit(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Thank you for reaching out. We will get back to you shortly.", inquiry)
}
