package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"atithi_backend/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByUser(ctx context.Context, userID string) ([]models.Notification, error)
	RecentByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id, userID string) (*models.Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

type notificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

func (r *notificationRepositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepositoryImpl) GetByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkAsRead scopes the update to the owner so one user cannot touch
// another's notifications.
func (r *notificationRepositoryImpl) MarkAsRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).
		First(&notification, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}

	notification.Read = true
	if err := r.db.WithContext(ctx).Save(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepositoryImpl) RecentByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// Delete is owner-scoped like MarkAsRead.
func (r *notificationRepositoryImpl) Delete(ctx context.Context, id, userID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead only touches unread rows, so repeated calls are no-ops.
func (r *notificationRepositoryImpl) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}
