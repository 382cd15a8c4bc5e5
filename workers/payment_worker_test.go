package workers_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maharshi0143/Payment-Gateway/events"
	"github.com/maharshi0143/Payment-Gateway/models"
	"github.com/maharshi0143/Payment-Gateway/workers"
)

func paymentJob(t *testing.T, paymentID string) []byte {
	t.Helper()
	b, err := json.Marshal(models.PaymentJob{PaymentID: paymentID})
	require.NoError(t, err)
	return b
}

func TestPaymentWorkerSuccess(t *testing.T) {
	merchantID := uuid.New()
	payment := &models.Payment{
		ID:         "pay_abc123",
		OrderID:    "order_abc123",
		MerchantID: merchantID,
		Amount:     10000,
		Currency:   "INR",
		Method:     models.MethodUPI,
		Status:     models.PaymentStatusPending,
	}
	repo := newMockPaymentRepo(payment)
	q := &recordingQueue{}

	w := workers.NewPaymentWorker(repo, q, events.NopProducer{}, workers.FixedOutcome{Success: true}, workers.FixedDelay(0), zap.NewNop())
	require.NoError(t, w.Handle(context.Background(), paymentJob(t, payment.ID)))

	assert.Equal(t, models.PaymentStatusSuccess, payment.Status)
	assert.Nil(t, payment.ErrorCode)

	jobs := q.all()
	require.Len(t, jobs, 1)
	assert.Equal(t, models.WebhookQueue, jobs[0].Queue)
	assert.Zero(t, jobs[0].Delay)

	var wj models.WebhookJob
	require.NoError(t, json.Unmarshal(jobs[0].Payload, &wj))
	assert.Equal(t, merchantID.String(), wj.MerchantID)
	assert.Equal(t, models.EventPaymentSuccess, wj.Event)
	assert.Empty(t, wj.LogID)

	var envelope models.WebhookEnvelope
	require.NoError(t, json.Unmarshal(wj.Payload, &envelope))
	assert.Equal(t, models.EventPaymentSuccess, envelope.Event)
	require.NotNil(t, envelope.Data.Payment)
	assert.Equal(t, payment.ID, envelope.Data.Payment.ID)
	assert.Equal(t, models.PaymentStatusSuccess, envelope.Data.Payment.Status)
	assert.Nil(t, envelope.Data.Refund)
	assert.NotZero(t, envelope.Timestamp)
}

func TestPaymentWorkerFailure(t *testing.T) {
	payment := &models.Payment{
		ID:         "pay_def456",
		MerchantID: uuid.New(),
		Amount:     5000,
		Method:     models.MethodCard,
		Status:     models.PaymentStatusPending,
	}
	repo := newMockPaymentRepo(payment)
	q := &recordingQueue{}

	w := workers.NewPaymentWorker(repo, q, events.NopProducer{}, workers.FixedOutcome{Success: false}, workers.FixedDelay(0), zap.NewNop())
	require.NoError(t, w.Handle(context.Background(), paymentJob(t, payment.ID)))

	assert.Equal(t, models.PaymentStatusFailed, payment.Status)
	require.NotNil(t, payment.ErrorCode)
	assert.Equal(t, models.ErrCodePaymentFailed, *payment.ErrorCode)
	require.NotNil(t, payment.ErrorDescription)
	assert.Equal(t, "Payment processing failed", *payment.ErrorDescription)

	jobs := q.all()
	require.Len(t, jobs, 1)
	var wj models.WebhookJob
	require.NoError(t, json.Unmarshal(jobs[0].Payload, &wj))
	assert.Equal(t, models.EventPaymentFailed, wj.Event)
}

func TestPaymentWorkerTerminalRedelivery(t *testing.T) {
	payment := &models.Payment{
		ID:     "pay_ghi789",
		Status: models.PaymentStatusSuccess,
	}
	repo := newMockPaymentRepo(payment)
	q := &recordingQueue{}

	w := workers.NewPaymentWorker(repo, q, events.NopProducer{}, workers.FixedOutcome{Success: false}, workers.FixedDelay(0), zap.NewNop())
	require.NoError(t, w.Handle(context.Background(), paymentJob(t, payment.ID)))

	// Redelivery must not rewrite the settled payment nor emit a second webhook.
	assert.Equal(t, models.PaymentStatusSuccess, payment.Status)
	assert.Zero(t, repo.saves)
	assert.Empty(t, q.all())
}

func TestPaymentWorkerMissingPayment(t *testing.T) {
	repo := newMockPaymentRepo()
	q := &recordingQueue{}

	w := workers.NewPaymentWorker(repo, q, events.NopProducer{}, workers.FixedOutcome{Success: true}, workers.FixedDelay(0), zap.NewNop())
	err := w.Handle(context.Background(), paymentJob(t, "pay_missing"))

	require.Error(t, err)
	assert.Empty(t, q.all())
}

func TestPaymentWorkerBadPayload(t *testing.T) {
	w := workers.NewPaymentWorker(newMockPaymentRepo(), &recordingQueue{}, events.NopProducer{}, workers.FixedOutcome{Success: true}, workers.FixedDelay(0), zap.NewNop())
	require.Error(t, w.Handle(context.Background(), []byte("{not json")))
}
