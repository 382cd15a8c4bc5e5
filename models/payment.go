package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MethodUPI  = "upi"
	MethodCard = "card"

	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusSuccess    = "success"
	PaymentStatusFailed     = "failed"

	// ErrCodePaymentFailed is recorded when settlement rejects a payment.
	ErrCodePaymentFailed = "PAYMENT_FAILED"
)

type Payment struct {
	ID               string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	OrderID          string    `json:"order_id" gorm:"type:varchar(64);not null;index"`
	MerchantID       uuid.UUID `json:"merchant_id" gorm:"type:uuid;not null;index"`
	Amount           int64     `json:"amount" gorm:"not null"` // minor units
	Currency         string    `json:"currency" gorm:"type:varchar(3);default:'INR'"`
	Method           string    `json:"method" gorm:"type:varchar(20);not null"`
	Status           string    `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Captured         bool      `json:"captured" gorm:"default:false"`
	VPA              *string   `json:"vpa,omitempty" gorm:"column:vpa;type:varchar(255)"`
	CardNetwork      *string   `json:"card_network,omitempty" gorm:"type:varchar(20)"`
	CardLast4        *string   `json:"card_last4,omitempty" gorm:"column:card_last4;type:varchar(4)"`
	ErrorCode        *string   `json:"error_code,omitempty" gorm:"type:varchar(50)"`
	ErrorDescription *string   `json:"error_description,omitempty" gorm:"type:text"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Payment) TableName() string { return "payments" }

// IsTerminal reports whether settlement has already finalized this payment.
// Workers use this to turn redelivered jobs into no-ops.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusSuccess || p.Status == PaymentStatusFailed
}

// MarkFailed moves the payment to the failed terminal state with the
// standard settlement error.
func (p *Payment) MarkFailed() {
	code := ErrCodePaymentFailed
	desc := "Payment processing failed"
	p.Status = PaymentStatusFailed
	p.ErrorCode = &code
	p.ErrorDescription = &desc
}
