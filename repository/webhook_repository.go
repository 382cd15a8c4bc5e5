package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maharshi0143/Payment-Gateway/models"
)

type WebhookLogRepository interface {
	Create(ctx context.Context, log *models.WebhookLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.WebhookLog, error)
	Save(ctx context.Context, log *models.WebhookLog) error
	ListByMerchant(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]models.WebhookLog, int64, error)
}

type gormWebhookLogRepo struct {
	db *gorm.DB
}

func NewGormWebhookLogRepo(db *gorm.DB) WebhookLogRepository {
	return &gormWebhookLogRepo{db: db}
}

func (r *gormWebhookLogRepo) Create(ctx context.Context, log *models.WebhookLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *gormWebhookLogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.WebhookLog, error) {
	var log models.WebhookLog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *gormWebhookLogRepo) Save(ctx context.Context, log *models.WebhookLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

func (r *gormWebhookLogRepo) ListByMerchant(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]models.WebhookLog, int64, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := r.db.WithContext(ctx).Model(&models.WebhookLog{}).Where("merchant_id = ?", merchantID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.WebhookLog
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error

	return logs, total, err
}
