package services

import (
	"context"
	"errors"
	"sort"

	"atithi_backend/internal/auth"
	"atithi_backend/internal/models"
	"atithi_backend/internal/repositories"
	"atithi_backend/internal/services/dto"
	"atithi_backend/pkg/apperrors"
)

// CustomerService is the signed-in customer's self-service surface.
type CustomerService interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	Dashboard(ctx context.Context, userID string) (*dto.CustomerDashboard, error)
	MyApplications(ctx context.Context, userID string) ([]dto.ApplicationListItem, error)
	MyApplication(ctx context.Context, userID string, kind models.ApplicationKind, id string) (any, error)
}

type customerService struct {
	userRepo         repositories.UserRepository
	jobRepo          repositories.JobApplicationRepository
	loanRepo         repositories.LoanApplicationRepository
	notificationRepo repositories.NotificationRepository
}

func NewCustomerService(
	userRepo repositories.UserRepository,
	jobRepo repositories.JobApplicationRepository,
	loanRepo repositories.LoanApplicationRepository,
	notificationRepo repositories.NotificationRepository,
) CustomerService {
	return &customerService{
		userRepo:         userRepo,
		jobRepo:          jobRepo,
		loanRepo:         loanRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *customerService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.NewUserNotFound()
	}
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch profile", err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *customerService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.NewUserNotFound()
	}
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch profile", err)
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperrors.InternalError("Failed to update profile", err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *customerService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.NewUserNotFound()
	}
	if err != nil {
		return apperrors.InternalError("Failed to fetch profile", err)
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError("Failed to hash password", err)
	}
	user.PasswordHash = hash

	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperrors.InternalError("Failed to update password", err)
	}
	return nil
}

// Dashboard summarizes the customer's landing page: per-kind counts, the
// status of the newest submission of each kind, and the latest notifications.
func (s *customerService) Dashboard(ctx context.Context, userID string) (*dto.CustomerDashboard, error) {
	jobs, err := s.jobRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch applications", err)
	}
	loans, err := s.loanRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch applications", err)
	}

	notifications, err := s.notificationRepo.RecentByUser(ctx, userID, 3)
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch notifications", err)
	}

	dashboard := &dto.CustomerDashboard{
		JobApplications:     int64(len(jobs)),
		LoanApplications:    int64(len(loans)),
		RecentNotifications: notifications,
	}
	if len(jobs) > 0 {
		dashboard.LatestJobStatus = jobs[0].Status
	}
	if len(loans) > 0 {
		dashboard.LatestLoanStatus = loans[0].Status
	}
	return dashboard, nil
}

// MyApplications merges the customer's job and loan submissions, newest
// first.
func (s *customerService) MyApplications(ctx context.Context, userID string) ([]dto.ApplicationListItem, error) {
	jobs, err := s.jobRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch applications", err)
	}
	loans, err := s.loanRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch applications", err)
	}

	items := make([]dto.ApplicationListItem, 0, len(jobs)+len(loans))
	for i := range jobs {
		items = append(items, toListItem(models.ApplicationKindJob, &jobs[i]))
	}
	for i := range loans {
		items = append(items, toListItem(models.ApplicationKindLoan, &loans[i]))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// MyApplication returns the full form document, but only to its owner. A
// mismatched owner gets the same NotFound as a missing id, so the endpoint
// cannot confirm that someone else's application exists.
func (s *customerService) MyApplication(ctx context.Context, userID string, kind models.ApplicationKind, id string) (any, error) {
	switch kind {
	case models.ApplicationKindJob:
		app, err := s.jobRepo.GetByID(ctx, id)
		if err != nil {
			return nil, mapApplicationErr(err)
		}
		if app.UserID == nil || *app.UserID != userID {
			return nil, apperrors.NewApplicationNotFound()
		}
		return app, nil
	case models.ApplicationKindLoan:
		app, err := s.loanRepo.GetByID(ctx, id)
		if err != nil {
			return nil, mapApplicationErr(err)
		}
		if app.UserID == nil || *app.UserID != userID {
			return nil, apperrors.NewApplicationNotFound()
		}
		return app, nil
	default:
		return nil, apperrors.NewInvalidApplicationKind(string(kind))
	}
}

func mapApplicationErr(err error) error {
	if errors.Is(err, repositories.ErrApplicationNotFound) {
		return apperrors.NewApplicationNotFound()
	}
	return apperrors.InternalError("Failed to fetch application", err)
}
