package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"atithi_backend/internal/logger"
	"atithi_backend/internal/services"
	"atithi_backend/internal/services/dto"
	"atithi_backend/pkg/apperrors"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	paymentGroup := r.Group("/payments")
	{
		paymentGroup.POST("/create-order", h.CreateOrder)
		paymentGroup.GET("/orders/:orderId", h.GetOrderStatus)
		paymentGroup.POST("/webhook", h.Webhook)
	}
}

func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	order, err := h.paymentService.CreateOrder(c.Request.Context(), h.OptionalUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order created", order)
}

func (h *PaymentHandler) GetOrderStatus(c *gin.Context) {
	order, err := h.paymentService.GetOrderStatus(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order status fetched", order)
}

// Webhook verifies the gateway signature over the raw body before anything
// in the payload is trusted. An invalid signature gets 401 and no processing.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Failed to read webhook body"))
		return
	}

	signature := c.GetHeader("x-webhook-signature")
	timestamp := c.GetHeader("x-webhook-timestamp")
	if !h.paymentService.VerifyWebhookSignature(rawBody, timestamp, signature) {
		logger.CtxWarn(c.Request.Context(), "webhook signature verification failed", "ip", c.ClientIP())
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid webhook signature"))
		return
	}

	logger.CtxInfo(c.Request.Context(), "payment webhook accepted", "bytes", len(rawBody))
	respond(c, http.StatusOK, "Webhook processed", nil)
}
