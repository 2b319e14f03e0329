package services

import (
	"context"
	"errors"

	"atithi_backend/internal/config"
	"atithi_backend/internal/email"
	"atithi_backend/internal/logger"
	"atithi_backend/internal/models"
	"atithi_backend/internal/repositories"
	"atithi_backend/internal/services/dto"
	"atithi_backend/pkg/apperrors"
)

// ApplicationService accepts job and loan submissions and serves the typed
// reads. Both guests and signed-in customers may submit; every submission
// must carry a settled payment and an accepted declaration.
type ApplicationService interface {
	SubmitJob(ctx context.Context, userID *string, req *dto.SubmitJobApplicationRequest) (*models.JobApplication, error)
	SubmitLoan(ctx context.Context, userID *string, req *dto.SubmitLoanApplicationRequest) (*models.LoanApplication, error)
	GetJobByID(ctx context.Context, id string) (*models.JobApplication, error)
	GetLoanByID(ctx context.Context, id string) (*models.LoanApplication, error)
}

type applicationService struct {
	jobRepo  repositories.JobApplicationRepository
	loanRepo repositories.LoanApplicationRepository
	mailer   email.Mailer
	cfg      *config.Config
}

func NewApplicationService(
	jobRepo repositories.JobApplicationRepository,
	loanRepo repositories.LoanApplicationRepository,
	mailer email.Mailer,
	cfg *config.Config,
) ApplicationService {
	return &applicationService{
		jobRepo:  jobRepo,
		loanRepo: loanRepo,
		mailer:   mailer,
		cfg:      cfg,
	}
}

func (s *applicationService) SubmitJob(ctx context.Context, userID *string, req *dto.SubmitJobApplicationRequest) (*models.JobApplication, error) {
	if !req.Declaration {
		return nil, apperrors.NewBadRequestError("Declaration must be accepted before submitting")
	}
	if req.PaymentDetails == nil || req.PaymentDetails.PaymentID == "" {
		return nil, apperrors.NewBadRequestError("Payment must be completed before submitting")
	}

	app := &models.JobApplication{
		UserID:   normalizeUserID(userID),
		Status:   models.ApplicationStatusPending,
		FullName: req.FullName,
		DOB:      req.DOB,
		Age:      req.Age,
		Gender:   req.Gender,
		Address:  req.Address,
		City:     req.City,
		State:    req.State,
		Zip:      req.Zip,
		Phone:    req.Phone,
		Email:    req.Email,

		Position:        req.Position,
		CurrentSalary:   req.CurrentSalary,
		ExpectedSalary:  req.ExpectedSalary,
		Experience:      req.Experience,
		CurrentLocation: req.CurrentLocation,
		NoticePeriod:    req.NoticePeriod,
		PreferLocation:  req.PreferLocation,
		Authorized:      req.Authorized,

		EmployerName:       req.EmployerName,
		Department:         req.Department,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		ReasonForLeaving:   req.ReasonForLeaving,
		CurrentDesignation: req.CurrentDesignation,

		Degree:     req.Degree,
		Percentage: req.Percentage,
		Aadhaar:    req.Aadhaar,
		UAN:        req.UAN,
		Languages:  req.Languages,

		Declaration: req.Declaration,
		PaymentDetails: models.PaymentDetails{
			OrderID:   req.PaymentDetails.OrderID,
			PaymentID: req.PaymentDetails.PaymentID,
			Amount:    req.PaymentDetails.Amount,
		},
	}

	if err := s.jobRepo.Create(ctx, app); err != nil {
		return nil, apperrors.InternalError("Failed to save application", err)
	}

	s.sendSubmissionEmails(ctx, app.UserID, string(models.ApplicationKindJob), app.FullName, app.Email, app.Position)
	return app, nil
}

func (s *applicationService) SubmitLoan(ctx context.Context, userID *string, req *dto.SubmitLoanApplicationRequest) (*models.LoanApplication, error) {
	if !req.Declaration {
		return nil, apperrors.NewBadRequestError("Declaration must be accepted before submitting")
	}
	if len(req.PaymentDetails) == 0 {
		return nil, apperrors.NewBadRequestError("Payment must be completed before submitting")
	}

	country := req.Country
	if country == "" {
		country = "India"
	}

	app := &models.LoanApplication{
		UserID:        normalizeUserID(userID),
		Status:        models.ApplicationStatusPending,
		FullName:      req.FullName,
		PAN:           req.PAN,
		DOB:           req.DOB,
		Gender:        req.Gender,
		MaritalStatus: req.MaritalStatus,
		Contact:       req.Contact,
		Email:         req.Email,
		Aadhaar:       req.Aadhaar,
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Country:       country,

		Position:       req.Position,
		EmploymentDate: req.EmploymentDate,
		EmploymentType: req.EmploymentType,
		MonthlyIncome:  req.MonthlyIncome,
		OtherIncome:    req.OtherIncome,
		LoanAmount:     req.LoanAmount,
		LoanPurpose:    req.LoanPurpose,

		NomineeName:    req.NomineeName,
		NomineeContact: req.NomineeContact,
		NomineeAadhaar: req.NomineeAadhaar,

		Declaration:    req.Declaration,
		PaymentDetails: req.PaymentDetails,
	}

	if err := s.loanRepo.Create(ctx, app); err != nil {
		return nil, apperrors.InternalError("Failed to save application", err)
	}

	s.sendSubmissionEmails(ctx, app.UserID, string(models.ApplicationKindLoan), app.FullName, app.Email, app.Title())
	return app, nil
}

// sendSubmissionEmails delivers the applicant confirmation and, for guest
// submissions, an alert to the admin inbox. Delivery failures are logged and
// never fail the submission.
func (s *applicationService) sendSubmissionEmails(ctx context.Context, userID *string, kind, name, to, title string) {
	body := email.ApplicationReceivedBody(name, kind, title)
	if err := s.mailer.Send(to, "We have received your application", body); err != nil {
		logger.CtxWithError(ctx, "failed to send application confirmation email", err, "to", to)
	}

	if userID == nil && s.cfg.Admin.NotificationEmail != "" {
		alert := email.GuestApplicationAlertBody(kind, name, to, title)
		if err := s.mailer.Send(s.cfg.Admin.NotificationEmail, "New guest application submitted", alert); err != nil {
			logger.CtxWithError(ctx, "failed to send guest application alert", err)
		}
	}
}

func (s *applicationService) GetJobByID(ctx context.Context, id string) (*models.JobApplication, error) {
	app, err := s.jobRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, apperrors.NewApplicationNotFound()
	}
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch application", err)
	}
	return app, nil
}

func (s *applicationService) GetLoanByID(ctx context.Context, id string) (*models.LoanApplication, error) {
	app, err := s.loanRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, apperrors.NewApplicationNotFound()
	}
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch application", err)
	}
	return app, nil
}

func normalizeUserID(userID *string) *string {
	if userID == nil || *userID == "" {
		return nil
	}
	return userID
}
