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

// RefundWorker consumes refund jobs. It re-validates refundability at
// settlement time: the creation-time check alone is racy under concurrent
// refunds for the same payment, so the aggregate is checked again here
// before committing.
type RefundWorker struct {
	refunds  repository.RefundRepository
	payments repository.PaymentRepository
	queue    queue.Queue
	producer events.Producer
	delay    DelayFn
	logger   *zap.Logger
}

func NewRefundWorker(
	refunds repository.RefundRepository,
	payments repository.PaymentRepository,
	q queue.Queue,
	producer events.Producer,
	delay DelayFn,
	logger *zap.Logger,
) *RefundWorker {
	return &RefundWorker{
		refunds:  refunds,
		payments: payments,
		queue:    q,
		producer: producer,
		delay:    delay,
		logger:   logger,
	}
}

func (w *RefundWorker) Handle(ctx context.Context, payload []byte) error {
	var job models.RefundJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("decode refund job: %w", err)
	}

	refund, err := w.refunds.FindByID(ctx, job.RefundID)
	if err != nil {
		return fmt.Errorf("refund %s not found: %w", job.RefundID, err)
	}

	if refund.IsTerminal() {
		w.logger.Info("refund already terminal, skipping",
			zap.String("refund_id", refund.ID),
			zap.String("status", refund.Status),
		)
		return nil
	}

	payment, err := w.payments.FindByID(ctx, refund.PaymentID)
	if err != nil {
		return fmt.Errorf("payment %s not found: %w", refund.PaymentID, err)
	}

	// Business-rule rejections are terminal: recorded on the refund, no
	// webhook, no retry.
	if payment.Status != models.PaymentStatusSuccess {
		return w.reject(ctx, refund, "Payment not successful")
	}

	total, err := w.refunds.SumActiveByPaymentID(ctx, payment.ID)
	if err != nil {
		return fmt.Errorf("sum refunds for payment %s: %w", payment.ID, err)
	}
	if total > payment.Amount {
		w.logger.Warn("refund exceeds payment amount",
			zap.String("refund_id", refund.ID),
			zap.Int64("total_refunded", total),
			zap.Int64("payment_amount", payment.Amount),
		)
		return w.reject(ctx, refund, "Refund amount exceeds allowed limit")
	}

	if err := sleep(ctx, w.delay()); err != nil {
		return err
	}

	now := time.Now()
	refund.Status = models.RefundStatusProcessed
	refund.ProcessedAt = &now
	if err := w.refunds.Save(ctx, refund); err != nil {
		return fmt.Errorf("save refund %s: %w", refund.ID, err)
	}

	w.logger.Info("refund processed", zap.String("refund_id", refund.ID))

	data := models.WebhookData{Refund: refund, Payment: payment}
	if err := enqueueWebhook(ctx, w.queue, refund.MerchantID.String(), models.EventRefundProcessed, data); err != nil {
		return err
	}

	_ = w.producer.Publish(ctx, events.OutcomeEvent{
		Event:      models.EventRefundProcessed,
		EntityID:   refund.ID,
		MerchantID: refund.MerchantID.String(),
		Amount:     refund.Amount,
		Currency:   payment.Currency,
		Timestamp:  time.Now().UTC(),
	})

	return nil
}

// reject finalizes the refund as failed with a note appended to any prior
// rejection notes.
func (w *RefundWorker) reject(ctx context.Context, refund *models.Refund, note string) error {
	notes := models.ParseRejectionNotes(refund.Reason).Append(note)
	refund.Status = models.RefundStatusFailed
	refund.Reason = notes.Render()
	if err := w.refunds.Save(ctx, refund); err != nil {
		return fmt.Errorf("save refund %s: %w", refund.ID, err)
	}

	w.logger.Warn("refund rejected",
		zap.String("refund_id", refund.ID),
		zap.String("note", note),
	)
	return nil
}
