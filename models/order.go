package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusCreated = "created"
	OrderStatusPaid    = "paid"

	// MinOrderAmount is the smallest accepted order amount in minor units.
	MinOrderAmount = 100
)

type Order struct {
	ID         string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	MerchantID uuid.UUID `json:"merchant_id" gorm:"type:uuid;not null;index"`
	Amount     int64     `json:"amount" gorm:"not null"` // minor units
	Currency   string    `json:"currency" gorm:"type:varchar(3);default:'INR'"`
	Receipt    *string   `json:"receipt,omitempty" gorm:"type:varchar(255)"`
	Notes      *string   `json:"notes,omitempty" gorm:"type:jsonb"`
	Status     string    `json:"status" gorm:"type:varchar(20);default:'created'"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }
