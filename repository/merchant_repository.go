package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maharshi0143/Payment-Gateway/models"
)

type MerchantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
	FindByAPIKey(ctx context.Context, apiKey string) (*models.Merchant, error)
	FindByEmail(ctx context.Context, email string) (*models.Merchant, error)
	UpdateWebhookURL(ctx context.Context, id uuid.UUID, webhookURL string) error
	UpdateWebhookSecret(ctx context.Context, id uuid.UUID, webhookSecret string) error
}

type gormMerchantRepo struct {
	db *gorm.DB
}

func NewGormMerchantRepo(db *gorm.DB) MerchantRepository {
	return &gormMerchantRepo{db: db}
}

func (r *gormMerchantRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&merchant).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *gormMerchantRepo) FindByAPIKey(ctx context.Context, apiKey string) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Where("api_key = ?", apiKey).First(&merchant).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *gormMerchantRepo) FindByEmail(ctx context.Context, email string) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&merchant).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *gormMerchantRepo) UpdateWebhookURL(ctx context.Context, id uuid.UUID, webhookURL string) error {
	return r.db.WithContext(ctx).Model(&models.Merchant{}).
		Where("id = ?", id).
		Update("webhook_url", webhookURL).Error
}

func (r *gormMerchantRepo) UpdateWebhookSecret(ctx context.Context, id uuid.UUID, webhookSecret string) error {
	return r.db.WithContext(ctx).Model(&models.Merchant{}).
		Where("id = ?", id).
		Update("webhook_secret", webhookSecret).Error
}
