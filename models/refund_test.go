package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRejectionNotes_RoundTrip(t *testing.T) {
	notes := ParseRejectionNotes(nil)
	assert.Empty(t, notes)
	assert.Nil(t, notes.Render())

	notes = notes.Append("Payment not successful")
	rendered := notes.Render()
	assert.NotNil(t, rendered)
	assert.Equal(t, "Payment not successful", *rendered)

	// A later settlement attempt appends, preserving prior text.
	notes = ParseRejectionNotes(rendered).Append("Refund amount exceeds allowed limit")
	rendered = notes.Render()
	assert.Equal(t, "Payment not successful | Refund amount exceeds allowed limit", *rendered)

	parsed := ParseRejectionNotes(rendered)
	assert.Equal(t, RejectionNotes{"Payment not successful", "Refund amount exceeds allowed limit"}, parsed)
}

func TestRefund_IsTerminal(t *testing.T) {
	assert.False(t, (&Refund{Status: RefundStatusPending}).IsTerminal())
	assert.True(t, (&Refund{Status: RefundStatusProcessed}).IsTerminal())
	assert.True(t, (&Refund{Status: RefundStatusFailed}).IsTerminal())
}

func TestPayment_MarkFailed(t *testing.T) {
	p := &Payment{Status: PaymentStatusPending}
	p.MarkFailed()

	assert.Equal(t, PaymentStatusFailed, p.Status)
	assert.Equal(t, ErrCodePaymentFailed, *p.ErrorCode)
	assert.Equal(t, "Payment processing failed", *p.ErrorDescription)
	assert.True(t, p.IsTerminal())
}

func TestWebhookLog_ResetForRetry(t *testing.T) {
	retryAt := time.Now()
	log := &WebhookLog{Status: WebhookStatusFailed, Attempts: 5, NextRetryAt: &retryAt}
	log.ResetForRetry()

	assert.Equal(t, WebhookStatusPending, log.Status)
	assert.Zero(t, log.Attempts)
	assert.Nil(t, log.NextRetryAt)
}
