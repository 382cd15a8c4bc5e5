package models

import "encoding/json"

// Queue names for the three settlement pipelines.
const (
	PaymentQueue = "payment-queue"
	RefundQueue  = "refund-queue"
	WebhookQueue = "webhook-queue"
)

// Webhook event names emitted by the settlement workers.
const (
	EventPaymentSuccess  = "payment.success"
	EventPaymentFailed   = "payment.failed"
	EventRefundProcessed = "refund.processed"
)

// PaymentJob is the payload carried on the payment queue.
type PaymentJob struct {
	PaymentID string `json:"paymentId"`
}

// RefundJob is the payload carried on the refund queue.
type RefundJob struct {
	RefundID string `json:"refundId"`
}

// WebhookJob is the payload carried on the webhook queue. Payload is kept as
// raw JSON: the delivery worker signs and posts the exact bytes. LogID is set
// on retries so every attempt of one logical delivery shares a log row.
type WebhookJob struct {
	MerchantID string          `json:"merchantId"`
	Event      string          `json:"event"`
	Payload    json.RawMessage `json:"payload"`
	LogID      string          `json:"logId,omitempty"`
}

// WebhookEnvelope is the wire format posted to merchant endpoints.
type WebhookEnvelope struct {
	Event     string      `json:"event"`
	Timestamp int64       `json:"timestamp"` // unix seconds
	Data      WebhookData `json:"data"`
}

type WebhookData struct {
	Payment *Payment `json:"payment,omitempty"`
	Refund  *Refund  `json:"refund,omitempty"`
}
