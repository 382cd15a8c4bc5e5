package database

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maharshi0143/Payment-Gateway/models"
)

// SeedTestMerchant inserts the well-known test merchant used by the checkout
// demo and the test endpoints. Idempotent across restarts.
func SeedTestMerchant(db *gorm.DB, logger *zap.Logger) error {
	var existing models.Merchant
	err := db.Where("email = ?", "test@example.com").First(&existing).Error
	if err == nil {
		logger.Info("Test merchant already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	merchant := models.Merchant{
		ID:        uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Name:      "Test Merchant",
		Email:     "test@example.com",
		APIKey:    "key_test_abc123",
		APISecret: "secret_test_xyz789",
		IsActive:  true,
	}
	if err := db.Create(&merchant).Error; err != nil {
		return err
	}

	logger.Info("Test merchant seeded successfully", zap.String("merchant_id", merchant.ID.String()))
	return nil
}
