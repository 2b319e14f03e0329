package apperrors

import "net/http"

// Domain-scoped factories. Keeping construction here means services never
// hand-roll status codes or message strings for the common cases.

// --- users ---

func NewUserNotFound() *AppError {
	return New(CodeNotFound, "users", "User not found", http.StatusNotFound)
}

func NewEmailAlreadyExists() *AppError {
	return New(CodeConflict, "users", "An account with this email already exists", http.StatusConflict)
}

func NewInvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)
}

func NewTokenInvalidOrExpired() *AppError {
	return New(CodeInvalidToken, "auth", "Token is invalid or has expired", http.StatusBadRequest)
}

// --- applications ---

func NewApplicationNotFound() *AppError {
	return New(CodeNotFound, "applications", "Application not found", http.StatusNotFound)
}

func NewInvalidApplicationStatus(status string) *AppError {
	return New(CodeInvalidStatus, "applications", "Invalid application status", http.StatusBadRequest).
		WithDetails(map[string]string{"status": status})
}

func NewInvalidApplicationKind(kind string) *AppError {
	return New(CodeValidationFailed, "applications", "Unknown application type", http.StatusBadRequest).
		WithDetails(map[string]string{"type": kind})
}

// --- notifications ---

func NewNotificationNotFound() *AppError {
	return New(CodeNotFound, "notifications", "Notification not found or you do not have permission", http.StatusNotFound)
}

// --- inquiries ---

func NewInquiryNotFound() *AppError {
	return New(CodeNotFound, "inquiries", "Inquiry not found", http.StatusNotFound)
}

// --- email / payment collaborators ---

func NewEmailDeliveryError(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "email", "Email could not be sent", http.StatusInternalServerError)
}

func NewPaymentGatewayError(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "payment", "Failed to create payment session", http.StatusInternalServerError)
}
