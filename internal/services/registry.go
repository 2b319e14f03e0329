package services

import (
	"gorm.io/gorm"

	"atithi_backend/internal/auth"
	"atithi_backend/internal/config"
	"atithi_backend/internal/email"
	"atithi_backend/internal/repositories"
)

// ServiceContainer holds every service of the application.
type ServiceContainer struct {
	AuthService         AuthService
	ApplicationService  ApplicationService
	CustomerService     CustomerService
	AdminService        AdminService
	NotificationService NotificationService
	InquiryService      InquiryService
	PaymentService      PaymentService

	UserRepo repositories.UserRepository
}

func NewServiceContainer(db *gorm.DB, cfg *config.Config, mailer email.Mailer, tokens *auth.TokenManager) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobApplicationRepository(db)
	loanRepo := repositories.NewLoanApplicationRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	inquiryRepo := repositories.NewInquiryRepository(db)
	settingRepo := repositories.NewSettingRepository(db)

	notificationSvc := NewNotificationService(notificationRepo)

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo, tokens, mailer, cfg),
		ApplicationService:  NewApplicationService(jobRepo, loanRepo, mailer, cfg),
		CustomerService:     NewCustomerService(userRepo, jobRepo, loanRepo, notificationRepo),
		AdminService:        NewAdminService(jobRepo, loanRepo, userRepo, inquiryRepo, settingRepo, notificationSvc),
		NotificationService: notificationSvc,
		InquiryService:      NewInquiryService(inquiryRepo, mailer, cfg),
		PaymentService:      NewPaymentService(settingRepo, userRepo, cfg),

		UserRepo: userRepo,
	}
}
