package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atithi_backend/internal/models"
	"atithi_backend/internal/services"
	"atithi_backend/internal/services/dto"
	"atithi_backend/pkg/apperrors"
)

type AdminHandler struct {
	*BaseHandler
	adminService       services.AdminService
	inquiryService     services.InquiryService
	applicationService services.ApplicationService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService, inquiryService services.InquiryService, applicationService services.ApplicationService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:        base,
		adminService:       adminService,
		inquiryService:     inquiryService,
		applicationService: applicationService,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	adminGroup := r.Group("/admin")
	{
		adminGroup.GET("/dashboard", h.Dashboard)
		adminGroup.GET("/analytics", h.Analytics)

		adminGroup.GET("/applications/:kind", h.ListApplications)
		adminGroup.GET("/applications/:kind/export", h.ExportApplications)
		adminGroup.GET("/applications/:kind/:id", h.GetApplication)
		adminGroup.PATCH("/applications/:kind/:id/status", h.UpdateApplicationStatus)

		adminGroup.GET("/users", h.ListUsers)
		adminGroup.POST("/users", h.CreateAdmin)
		adminGroup.GET("/users/:id", h.GetUserDetails)
		adminGroup.PUT("/users/:id", h.UpdateUser)
		adminGroup.DELETE("/users/:id", h.DeleteUser)

		adminGroup.GET("/settings", h.GetSettings)
		adminGroup.PUT("/settings", h.UpdateSettings)

		adminGroup.GET("/inquiries", h.ListInquiries)
		adminGroup.POST("/inquiries/:id/reply", h.ReplyInquiry)
		adminGroup.PATCH("/inquiries/:id/close", h.CloseInquiry)
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Dashboard stats fetched", stats)
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	days := ParseQueryInt(c, "days", 30)

	analytics, err := h.adminService.GetAnalytics(c.Request.Context(), days)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Analytics fetched", analytics)
}

func (h *AdminHandler) ListApplications(c *gin.Context) {
	page, limit := ParsePagination(c)
	kind := models.ApplicationKind(c.Param("kind"))
	status := models.ApplicationStatus(c.Query("status"))
	search := c.Query("search")

	items, pagination, err := h.adminService.ListApplications(c.Request.Context(), kind, status, search, page, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondPaginated(c, http.StatusOK, "Applications fetched", items, pagination)
}

func (h *AdminHandler) ExportApplications(c *gin.Context) {
	kind := models.ApplicationKind(c.Param("kind"))

	apps, err := h.adminService.ExportApplications(c.Request.Context(), kind)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Applications exported", apps)
}

// GetApplication returns the full form document, not the listing projection.
func (h *AdminHandler) GetApplication(c *gin.Context) {
	var (
		app any
		err error
	)
	switch models.ApplicationKind(c.Param("kind")) {
	case models.ApplicationKindJob:
		app, err = h.applicationService.GetJobByID(c.Request.Context(), c.Param("id"))
	case models.ApplicationKindLoan:
		app, err = h.applicationService.GetLoanByID(c.Request.Context(), c.Param("id"))
	default:
		apperrors.HandleError(c, apperrors.NewInvalidApplicationKind(c.Param("kind")))
		return
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Application fetched", app)
}

func (h *AdminHandler) UpdateApplicationStatus(c *gin.Context) {
	var req dto.UpdateApplicationStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	kind := models.ApplicationKind(c.Param("kind"))
	view, err := h.adminService.UpdateApplicationStatus(c.Request.Context(), kind, c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Application status updated", view)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := ParsePagination(c)
	search := c.Query("search")

	items, pagination, err := h.adminService.ListUsers(c.Request.Context(), search, page, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondPaginated(c, http.StatusOK, "Users fetched", items, pagination)
}

// CreateAdmin provisions another admin account. Admin accounts skip the OTP
// flow; only an existing admin can reach this endpoint.
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req dto.CreateAdminRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.adminService.CreateAdmin(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Admin created", user)
}

func (h *AdminHandler) GetUserDetails(c *gin.Context) {
	details, err := h.adminService.GetUserDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "User details fetched", details)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.adminService.UpdateUser(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "User updated", user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.adminService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "User deleted", nil)
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.adminService.GetSettings(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Settings fetched", settings)
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	settings, err := h.adminService.UpdateSettings(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Settings updated", settings)
}

func (h *AdminHandler) ListInquiries(c *gin.Context) {
	page, limit := ParsePagination(c)
	status := models.InquiryStatus(c.Query("status"))

	inquiries, pagination, err := h.inquiryService.List(c.Request.Context(), status, page, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondPaginated(c, http.StatusOK, "Inquiries fetched", inquiries, pagination)
}

func (h *AdminHandler) ReplyInquiry(c *gin.Context) {
	var req dto.ReplyInquiryRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	inquiry, err := h.inquiryService.Reply(c.Request.Context(), c.Param("id"), req.ReplyMessage)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Reply sent", inquiry)
}

func (h *AdminHandler) CloseInquiry(c *gin.Context) {
	inquiry, err := h.inquiryService.Close(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Inquiry closed", inquiry)
}
