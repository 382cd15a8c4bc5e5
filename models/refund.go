package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RefundStatusPending   = "pending"
	RefundStatusProcessed = "processed"
	RefundStatusFailed    = "failed"
)

type Refund struct {
	ID          string     `json:"id" gorm:"type:varchar(64);primaryKey"`
	PaymentID   string     `json:"payment_id" gorm:"type:varchar(64);not null;index"`
	MerchantID  uuid.UUID  `json:"merchant_id" gorm:"type:uuid;not null;index"`
	Amount      int64      `json:"amount" gorm:"not null"` // minor units
	Reason      *string    `json:"reason,omitempty" gorm:"type:text"`
	Status      string     `json:"status" gorm:"type:varchar(20);default:'pending'"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Refund) TableName() string { return "refunds" }

// IsTerminal reports whether the refund settlement already finished.
func (r *Refund) IsTerminal() bool {
	return r.Status == RefundStatusProcessed || r.Status == RefundStatusFailed
}

// RejectionNotes is the ordered list of validation notes accumulated on a
// refund across settlement attempts. The flat reason column stores the notes
// joined with " | "; the list form is what workers operate on.
type RejectionNotes []string

const noteSeparator = " | "

// ParseRejectionNotes splits a stored reason column back into its note list.
func ParseRejectionNotes(reason *string) RejectionNotes {
	if reason == nil || *reason == "" {
		return nil
	}
	return strings.Split(*reason, noteSeparator)
}

// Append adds a note, preserving prior entries.
func (n RejectionNotes) Append(note string) RejectionNotes {
	return append(n, note)
}

// Render joins the notes into the boundary representation, or nil when empty.
func (n RejectionNotes) Render() *string {
	if len(n) == 0 {
		return nil
	}
	s := strings.Join(n, noteSeparator)
	return &s
}
