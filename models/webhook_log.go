package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	WebhookStatusPending = "pending"
	WebhookStatusSuccess = "success"
	WebhookStatusFailed  = "failed"

	// MaxWebhookAttempts caps automatic delivery attempts per log.
	MaxWebhookAttempts = 5
)

type WebhookLog struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	MerchantID    uuid.UUID  `json:"merchant_id" gorm:"type:uuid;not null;index"`
	Event         string     `json:"event" gorm:"type:varchar(50);not null"`
	Payload       string     `json:"payload" gorm:"type:jsonb;not null"`
	Status        string     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Attempts      int        `json:"attempts" gorm:"default:0"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	ResponseCode  *int       `json:"response_code,omitempty"`
	ResponseBody  *string    `json:"response_body,omitempty" gorm:"type:text"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (WebhookLog) TableName() string { return "webhook_logs" }

// ResetForRetry rewinds a log for the manual retry operation: attempts back
// to zero, status pending, no scheduled retry.
func (w *WebhookLog) ResetForRetry() {
	w.Status = WebhookStatusPending
	w.Attempts = 0
	w.NextRetryAt = nil
}
