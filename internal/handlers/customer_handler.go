package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atithi_backend/internal/models"
	"atithi_backend/internal/services"
	"atithi_backend/internal/services/dto"
)

type CustomerHandler struct {
	*BaseHandler
	customerService     services.CustomerService
	notificationService services.NotificationService
}

func NewCustomerHandler(base *BaseHandler, customerService services.CustomerService, notificationService services.NotificationService) *CustomerHandler {
	return &CustomerHandler{
		BaseHandler:         base,
		customerService:     customerService,
		notificationService: notificationService,
	}
}

func (h *CustomerHandler) RegisterRoutes(r *gin.RouterGroup) {
	customerGroup := r.Group("/customer")
	{
		customerGroup.GET("/dashboard", h.Dashboard)
		customerGroup.GET("/profile", h.GetProfile)
		customerGroup.PUT("/profile", h.UpdateProfile)
		customerGroup.PUT("/password", h.ChangePassword)
		customerGroup.GET("/applications", h.MyApplications)
		customerGroup.GET("/applications/:kind/:id", h.MyApplication)

		customerGroup.GET("/notifications", h.GetNotifications)
		customerGroup.PATCH("/notifications/read-all", h.MarkAllNotificationsRead)
		customerGroup.PATCH("/notifications/:id/read", h.MarkNotificationRead)
		customerGroup.DELETE("/notifications/:id", h.DeleteNotification)
	}
}

func (h *CustomerHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.customerService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Profile fetched", profile)
}

func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	profile, err := h.customerService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Profile updated", profile)
}

func (h *CustomerHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.customerService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Password changed", nil)
}

func (h *CustomerHandler) Dashboard(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.customerService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Dashboard fetched", dashboard)
}

func (h *CustomerHandler) MyApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	apps, err := h.customerService.MyApplications(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Applications fetched", apps)
}

func (h *CustomerHandler) MyApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	kind := models.ApplicationKind(c.Param("kind"))
	app, err := h.customerService.MyApplication(c.Request.Context(), userID, kind, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Application fetched", app)
}

func (h *CustomerHandler) GetNotifications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.GetUserNotifications(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Notifications fetched", notifications)
}

func (h *CustomerHandler) MarkNotificationRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkAsRead(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Notification marked as read", notification)
}

func (h *CustomerHandler) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "All notifications marked as read", gin.H{"updated": updated})
}

func (h *CustomerHandler) DeleteNotification(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Notification deleted", nil)
}
