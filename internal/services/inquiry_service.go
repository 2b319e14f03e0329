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

// InquiryService handles the public contact form and the admin reply flow.
type InquiryService interface {
	Submit(ctx context.Context, req *dto.ContactRequest) (*models.ContactInquiry, error)
	List(ctx context.Context, status models.InquiryStatus, page, limit int) ([]models.ContactInquiry, dto.Pagination, error)
	Reply(ctx context.Context, id, replyMessage string) (*models.ContactInquiry, error)
	Close(ctx context.Context, id string) (*models.ContactInquiry, error)
}

type inquiryService struct {
	repo   repositories.InquiryRepository
	mailer email.Mailer
	cfg    *config.Config
}

func NewInquiryService(repo repositories.InquiryRepository, mailer email.Mailer, cfg *config.Config) InquiryService {
	return &inquiryService{repo: repo, mailer: mailer, cfg: cfg}
}

func (s *inquiryService) Submit(ctx context.Context, req *dto.ContactRequest) (*models.ContactInquiry, error) {
	inquiry := &models.ContactInquiry{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.InquiryStatusNew,
	}
	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, apperrors.InternalError("Failed to save inquiry", err)
	}

	// Best effort: the inquiry is stored even if the admin alert bounces.
	if s.cfg.Admin.NotificationEmail != "" {
		body := email.InquiryAlertBody(req.Name, req.Email, req.Phone, req.Subject, req.Message)
		if err := s.mailer.Send(s.cfg.Admin.NotificationEmail, "New contact inquiry: "+req.Subject, body); err != nil {
			logger.CtxWithError(ctx, "failed to send inquiry alert email", err)
		}
	}
	return inquiry, nil
}

func (s *inquiryService) List(ctx context.Context, status models.InquiryStatus, page, limit int) ([]models.ContactInquiry, dto.Pagination, error) {
	inquiries, total, err := s.repo.FindWithFilter(ctx, repositories.InquiryCriteria{
		Status: status,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, dto.Pagination{}, apperrors.InternalError("Failed to fetch inquiries", err)
	}
	return inquiries, dto.NewPagination(page, limit, total), nil
}

// Reply sends the reply email first and only then flips the inquiry to
// Replied. If delivery fails the inquiry stays New so the admin can retry.
func (s *inquiryService) Reply(ctx context.Context, id, replyMessage string) (*models.ContactInquiry, error) {
	inquiry, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrInquiryNotFound) {
		return nil, apperrors.NewInquiryNotFound()
	}
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch inquiry", err)
	}

	body := email.InquiryReplyBody(inquiry.Name, inquiry.Subject, replyMessage)
	if err := s.mailer.Send(inquiry.Email, "Re: "+inquiry.Subject, body); err != nil {
		return nil, apperrors.NewEmailDeliveryError(err)
	}

	if err := s.repo.UpdateStatus(ctx, id, models.InquiryStatusReplied); err != nil {
		return nil, apperrors.InternalError("Failed to update inquiry status", err)
	}
	inquiry.Status = models.InquiryStatusReplied
	return inquiry, nil
}

func (s *inquiryService) Close(ctx context.Context, id string) (*models.ContactInquiry, error) {
	inquiry, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrInquiryNotFound) {
		return nil, apperrors.NewInquiryNotFound()
	}
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch inquiry", err)
	}

	if err := s.repo.UpdateStatus(ctx, id, models.InquiryStatusClosed); err != nil {
		return nil, apperrors.InternalError("Failed to update inquiry status", err)
	}
	inquiry.Status = models.InquiryStatusClosed
	return inquiry, nil
}
