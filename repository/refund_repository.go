package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/maharshi0143/Payment-Gateway/models"
)

type RefundRepository interface {
	Create(ctx context.Context, refund *models.Refund) error
	FindByID(ctx context.Context, id string) (*models.Refund, error)
	Save(ctx context.Context, refund *models.Refund) error
	// SumActiveByPaymentID returns the total amount of refunds for the
	// payment whose status is pending or processed. Rejected refunds do
	// not count against the payment's refundable balance.
	SumActiveByPaymentID(ctx context.Context, paymentID string) (int64, error)
}

type gormRefundRepo struct {
	db *gorm.DB
}

func NewGormRefundRepo(db *gorm.DB) RefundRepository {
	return &gormRefundRepo{db: db}
}

func (r *gormRefundRepo) Create(ctx context.Context, refund *models.Refund) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

func (r *gormRefundRepo) FindByID(ctx context.Context, id string) (*models.Refund, error) {
	var refund models.Refund
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&refund).Error; err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *gormRefundRepo) Save(ctx context.Context, refund *models.Refund) error {
	return r.db.WithContext(ctx).Save(refund).Error
}

func (r *gormRefundRepo) SumActiveByPaymentID(ctx context.Context, paymentID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Refund{}).
		Where("payment_id = ? AND status IN ?", paymentID, []string{models.RefundStatusPending, models.RefundStatusProcessed}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
