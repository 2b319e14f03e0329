package handlers

import (
	"atithi_backend/internal/services"
	"atithi_backend/internal/validator"
)

// AppHandlers holds every handler of the application.
type AppHandlers struct {
	AuthHandler        *AuthHandler
	ApplicationHandler *ApplicationHandler
	CustomerHandler    *CustomerHandler
	AdminHandler       *AdminHandler
	ContactHandler     *ContactHandler
	PaymentHandler     *PaymentHandler
}

func NewAppHandlers(svc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:        NewAuthHandler(base, svc.AuthService),
		ApplicationHandler: NewApplicationHandler(base, svc.ApplicationService),
		CustomerHandler:    NewCustomerHandler(base, svc.CustomerService, svc.NotificationService),
		AdminHandler:       NewAdminHandler(base, svc.AdminService, svc.InquiryService, svc.ApplicationService),
		ContactHandler:     NewContactHandler(base, svc.InquiryService),
		PaymentHandler:     NewPaymentHandler(base, svc.PaymentService),
	}
}
