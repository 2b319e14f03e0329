package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"atithi_backend/internal/models"
)

var ErrInquiryNotFound = errors.New("inquiry not found")

type InquiryCriteria struct {
	Status models.InquiryStatus
	Offset int
	Limit  int
}

type InquiryRepository interface {
	Create(ctx context.Context, inquiry *models.ContactInquiry) error
	GetByID(ctx context.Context, id string) (*models.ContactInquiry, error)
	UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) error
	FindWithFilter(ctx context.Context, criteria InquiryCriteria) ([]models.ContactInquiry, int64, error)
}

type inquiryRepositoryImpl struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) InquiryRepository {
	return &inquiryRepositoryImpl{db: db}
}

func (r *inquiryRepositoryImpl) Create(ctx context.Context, inquiry *models.ContactInquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}

func (r *inquiryRepositoryImpl) GetByID(ctx context.Context, id string) (*models.ContactInquiry, error) {
	var inquiry models.ContactInquiry
	err := r.db.WithContext(ctx).First(&inquiry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInquiryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *inquiryRepositoryImpl) UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) error {
	res := r.db.WithContext(ctx).Model(&models.ContactInquiry{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInquiryNotFound
	}
	return nil
}

func (r *inquiryRepositoryImpl) FindWithFilter(ctx context.Context, criteria InquiryCriteria) ([]models.ContactInquiry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ContactInquiry{})
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var inquiries []models.ContactInquiry
	err := query.Order("created_at DESC").
		Offset(criteria.Offset).
		Limit(criteria.Limit).
		Find(&inquiries).Error
	if err != nil {
		return nil, 0, err
	}
	return inquiries, total, nil
}
