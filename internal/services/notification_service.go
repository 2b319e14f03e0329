package services

import (
	"context"
	"errors"
	"fmt"

	"atithi_backend/internal/models"
	"atithi_backend/internal/repositories"
	"atithi_backend/pkg/apperrors"
)

type NotificationService interface {
	NotifyStatusChange(ctx context.Context, userID *string, kind models.ApplicationKind, title string, status models.ApplicationStatus) error
	GetUserNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id, userID string) (*models.Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

type notificationService struct {
	repo repositories.NotificationRepository
}

func NewNotificationService(repo repositories.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// NotifyStatusChange records an in-app notification for the applicant.
// Guest applications have no account to notify, so a nil userID is a no-op.
func (s *notificationService) NotifyStatusChange(ctx context.Context, userID *string, kind models.ApplicationKind, title string, status models.ApplicationStatus) error {
	if userID == nil || *userID == "" {
		return nil
	}

	notification := &models.Notification{
		UserID: *userID,
		Type:   models.NotificationTypeUpdate,
		Text:   fmt.Sprintf("Your %s application for '%s' has been updated to '%s'.", kind, title, status),
		Link:   "/customer/applications",
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return apperrors.InternalError("Failed to create notification", err)
	}
	return nil
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.InternalError("Failed to fetch notifications", err)
	}
	return notifications, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	notification, err := s.repo.MarkAsRead(ctx, id, userID)
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return nil, apperrors.NewNotificationNotFound()
	}
	if err != nil {
		return nil, apperrors.InternalError("Failed to mark notification as read", err)
	}
	return notification, nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	updated, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, apperrors.InternalError("Failed to mark notifications as read", err)
	}
	return updated, nil
}

func (s *notificationService) Delete(ctx context.Context, id, userID string) error {
	err := s.repo.Delete(ctx, id, userID)
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.NewNotificationNotFound()
	}
	if err != nil {
		return apperrors.InternalError("Failed to delete notification", err)
	}
	return nil
}
