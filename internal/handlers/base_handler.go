package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"atithi_backend/internal/logger"
	"atithi_backend/internal/services/dto"
	"atithi_backend/internal/validator"
	"atithi_backend/pkg/apperrors"
)

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError("", err))
		}
		return false
	}
	return true
}

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		logger.CtxWarn(ctx, "Service error",
			"error", appErr.Message,
			"details", appErr.Details,
			"path", c.Request.URL.Path,
		)
		apperrors.HandleError(c, appErr)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError("", err))
	}
}

func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	ctx := c.Request.Context()

	userIDVal, exists := c.Get("userID")
	if !exists {
		logger.CtxWarn(ctx, "Unauthorized access: userID not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return "", false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok || userIDStr == "" {
		logger.CtxWarn(ctx, "Unauthorized access: invalid userID in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid user ID in context"))
		return "", false
	}

	return userIDStr, true
}

// OptionalUserID returns the caller's user ID when authenticated, nil for
// guests. Submission endpoints accept both.
func (h *BaseHandler) OptionalUserID(c *gin.Context) *string {
	userIDVal, exists := c.Get("userID")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return nil
	}
	return &userID
}

func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// ParsePagination reads page and limit, clamping limit to 100 so a single
// request cannot pull the whole table.
func ParsePagination(c *gin.Context) (page int, limit int) {
	const defaultPage = 1
	const defaultLimit = 10
	const maxLimit = 100

	page = ParseQueryInt(c, "page", defaultPage)
	if page < 1 {
		page = defaultPage
	}

	limit = ParseQueryInt(c, "limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// envelope is the uniform success response shape.
type envelope struct {
	Message    string          `json:"message"`
	Data       any             `json:"data,omitempty"`
	Pagination *dto.Pagination `json:"pagination,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Message: message, Data: data})
}

func respondPaginated(c *gin.Context, status int, message string, data any, pagination dto.Pagination) {
	c.JSON(status, envelope{Message: message, Data: data, Pagination: &pagination})
}
