package models

import (
	"time"

	"github.com/google/uuid"
)

type Merchant struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null"`
	Email         string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	APIKey        string    `json:"api_key" gorm:"column:api_key;type:varchar(64);not null;uniqueIndex"`
	APISecret     string    `json:"-" gorm:"column:api_secret;type:varchar(64);not null"`
	WebhookURL    *string   `json:"webhook_url" gorm:"column:webhook_url;type:text"`
	WebhookSecret *string   `json:"-" gorm:"column:webhook_secret;type:varchar(64)"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Merchant) TableName() string { return "merchants" }

// HasWebhook reports whether the merchant has a registered delivery endpoint.
func (m *Merchant) HasWebhook() bool {
	return m.WebhookURL != nil && *m.WebhookURL != ""
}
