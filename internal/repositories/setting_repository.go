package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"atithi_backend/internal/models"
)

type SettingRepository interface {
	Get(ctx context.Context) (*models.Setting, error)
	Update(ctx context.Context, patch map[string]any) (*models.Setting, error)
}

type settingRepositoryImpl struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepositoryImpl{db: db}
}

// Get returns the singleton row, creating it with defaults on first read.
func (r *settingRepositoryImpl) Get(ctx context.Context) (*models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.Setting{
			SiteName:       "Atithi Consultant Services",
			ApplicationFee: 450,
		}
		if err := r.db.WithContext(ctx).Create(&setting).Error; err != nil {
			return nil, err
		}
		return &setting, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepositoryImpl) Update(ctx context.Context, patch map[string]any) (*models.Setting, error) {
	setting, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return setting, nil
	}
	err = r.db.WithContext(ctx).Model(setting).Updates(patch).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}
