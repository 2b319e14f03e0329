package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"atithi_backend/internal/models"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrTempUserNotFound = errors.New("temp user not found")
)

// UserCriteria narrows admin user listings. Search matches name or email,
// case-insensitively.
type UserCriteria struct {
	Role   models.UserRole
	Search string
	Offset int
	Limit  int
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	FindWithFilter(ctx context.Context, criteria UserCriteria) ([]models.User, int64, error)
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
	CountApplicationsByUser(ctx context.Context, userIDs []string) (map[string]int64, error)

	UpsertTempUser(ctx context.Context, temp *models.TempUser) error
	GetTempUserByToken(ctx context.Context, email, tokenHash string, now time.Time) (*models.TempUser, error)
	DeleteTempUsersByEmail(ctx context.Context, email string) error
	DeleteExpiredTempUsers(ctx context.Context, now time.Time) (int64, error)
}

type userRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepositoryImpl) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("forgot_password_token = ? AND forgot_password_token_expiry > ?", token, time.Now()).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepositoryImpl) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepositoryImpl) FindWithFilter(ctx context.Context, criteria UserCriteria) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if criteria.Role != "" {
		query = query.Where("role = ?", criteria.Role)
	}
	if criteria.Search != "" {
		pattern := "%" + criteria.Search + "%"
		query = query.Where("LOWER(full_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query.Order("created_at DESC").
		Offset(criteria.Offset).
		Limit(criteria.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepositoryImpl) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

// CountApplicationsByUser returns job plus loan submission counts for a set
// of users in two grouped queries, one listing page at a time.
func (r *userRepositoryImpl) CountApplicationsByUser(ctx context.Context, userIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}

	type userCount struct {
		UserID string
		Count  int64
	}
	for _, model := range []any{&models.JobApplication{}, &models.LoanApplication{}} {
		var rows []userCount
		err := r.db.WithContext(ctx).Model(model).
			Select("user_id, COUNT(*) AS count").
			Where("user_id IN ?", userIDs).
			Group("user_id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			counts[row.UserID] += row.Count
		}
	}
	return counts, nil
}

// UpsertTempUser replaces any pending registration for the same email so the
// latest OTP is the only valid one.
func (r *userRepositoryImpl) UpsertTempUser(ctx context.Context, temp *models.TempUser) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", temp.Email).Delete(&models.TempUser{}).Error; err != nil {
			return err
		}
		return tx.Create(temp).Error
	})
}

func (r *userRepositoryImpl) GetTempUserByToken(ctx context.Context, email, tokenHash string, now time.Time) (*models.TempUser, error) {
	var temp models.TempUser
	err := r.db.WithContext(ctx).
		Where("email = ? AND email_verification_token = ? AND email_verification_token_expiry > ?",
			email, tokenHash, now).
		First(&temp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTempUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &temp, nil
}

func (r *userRepositoryImpl) DeleteTempUsersByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&models.TempUser{}).Error
}

func (r *userRepositoryImpl) DeleteExpiredTempUsers(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("email_verification_token_expiry <= ?", now).
		Delete(&models.TempUser{})
	return res.RowsAffected, res.Error
}
