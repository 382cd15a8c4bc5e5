package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/maharshi0143/Payment-Gateway/events"
	"github.com/maharshi0143/Payment-Gateway/models"
	"github.com/maharshi0143/Payment-Gateway/queue"
	"github.com/maharshi0143/Payment-Gateway/repository"
)

// PaymentWorker consumes payment jobs, simulates bank settlement and
// finalizes the payment, then hands the outcome to the webhook queue.
type PaymentWorker struct {
	payments repository.PaymentRepository
	queue    queue.Queue
	producer events.Producer
	outcome  OutcomeProvider
	delay    DelayFn
	logger   *zap.Logger
}

func NewPaymentWorker(
	payments repository.PaymentRepository,
	q queue.Queue,
	producer events.Producer,
	outcome OutcomeProvider,
	delay DelayFn,
	logger *zap.Logger,
) *PaymentWorker {
	return &PaymentWorker{
		payments: payments,
		queue:    q,
		producer: producer,
		outcome:  outcome,
		delay:    delay,
		logger:   logger,
	}
}

func (w *PaymentWorker) Handle(ctx context.Context, payload []byte) error {
	var job models.PaymentJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("decode payment job: %w", err)
	}

	payment, err := w.payments.FindByID(ctx, job.PaymentID)
	if err != nil {
		return fmt.Errorf("payment %s not found: %w", job.PaymentID, err)
	}

	// Redelivered job for an already-settled payment: no-op.
	if payment.IsTerminal() {
		w.logger.Info("payment already terminal, skipping",
			zap.String("payment_id", payment.ID),
			zap.String("status", payment.Status),
		)
		return nil
	}

	if err := sleep(ctx, w.delay()); err != nil {
		return err
	}

	success := w.outcome.Settle(payment.Method)
	if success {
		payment.Status = models.PaymentStatusSuccess
	} else {
		payment.MarkFailed()
	}

	if err := w.payments.Save(ctx, payment); err != nil {
		return fmt.Errorf("save payment %s: %w", payment.ID, err)
	}

	event := models.EventPaymentFailed
	if success {
		event = models.EventPaymentSuccess
	}

	w.logger.Info("payment settled",
		zap.String("payment_id", payment.ID),
		zap.String("status", payment.Status),
	)

	if err := enqueueWebhook(ctx, w.queue, payment.MerchantID.String(), event, models.WebhookData{Payment: payment}); err != nil {
		return err
	}

	// Best-effort: the outcome stream never blocks settlement.
	_ = w.producer.Publish(ctx, events.OutcomeEvent{
		Event:      event,
		EntityID:   payment.ID,
		MerchantID: payment.MerchantID.String(),
		Amount:     payment.Amount,
		Currency:   payment.Currency,
		Timestamp:  time.Now().UTC(),
	})

	return nil
}

// sleep blocks for the simulated settlement latency without holding up
// other queues; it returns early only on context cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueueWebhook wraps data in the wire envelope and admits a webhook job.
func enqueueWebhook(ctx context.Context, q queue.Queue, merchantID, event string, data models.WebhookData) error {
	envelope, err := json.Marshal(models.WebhookEnvelope{
		Event:     event,
		Timestamp: time.Now().Unix(),
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook envelope: %w", err)
	}

	job, err := json.Marshal(models.WebhookJob{
		MerchantID: merchantID,
		Event:      event,
		Payload:    envelope,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook job: %w", err)
	}

	if err := q.Enqueue(ctx, models.WebhookQueue, job, 0); err != nil {
		return fmt.Errorf("enqueue webhook job: %w", err)
	}
	return nil
}
