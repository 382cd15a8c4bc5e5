package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maharshi0143/Payment-Gateway/models"
	"github.com/maharshi0143/Payment-Gateway/queue"
	"github.com/maharshi0143/Payment-Gateway/repository"
	"github.com/maharshi0143/Payment-Gateway/services"
)

const maxResponseBody = 64 * 1024

// WebhookWorker delivers signed event payloads to merchant endpoints and
// owns the bounded retry loop. Each logical delivery shares one WebhookLog
// row across attempts (the re-enqueued job carries the log ID).
type WebhookWorker struct {
	merchants repository.MerchantRepository
	logs      repository.WebhookLogRepository
	queue     queue.Queue
	client    *http.Client
	// intervals[n] is the delay before attempt n+1, indexed by the attempt
	// number that just failed: attempt 1 fails -> wait intervals[1] before
	// attempt 2, and so on.
	intervals []time.Duration
	logger    *zap.Logger
}

func NewWebhookWorker(
	merchants repository.MerchantRepository,
	logs repository.WebhookLogRepository,
	q queue.Queue,
	timeout time.Duration,
	intervals []time.Duration,
	logger *zap.Logger,
) *WebhookWorker {
	return &WebhookWorker{
		merchants: merchants,
		logs:      logs,
		queue:     q,
		client:    &http.Client{Timeout: timeout},
		intervals: intervals,
		logger:    logger,
	}
}

func (w *WebhookWorker) Handle(ctx context.Context, payload []byte) error {
	var job models.WebhookJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("decode webhook job: %w", err)
	}

	merchantID, err := uuid.Parse(job.MerchantID)
	if err != nil {
		return fmt.Errorf("invalid merchant id %q: %w", job.MerchantID, err)
	}

	merchant, err := w.merchants.FindByID(ctx, merchantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w.logger.Info("merchant gone, dropping webhook", zap.String("merchant_id", job.MerchantID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load merchant %s: %w", job.MerchantID, err)
	}
	if !merchant.HasWebhook() {
		w.logger.Info("no webhook URL for merchant, skipping",
			zap.String("merchant_id", job.MerchantID),
			zap.String("event", job.Event),
		)
		return nil
	}

	log, err := w.resolveLog(ctx, &job, merchantID)
	if err != nil {
		return err
	}
	currentAttempt := log.Attempts + 1

	secret := ""
	if merchant.WebhookSecret != nil {
		secret = *merchant.WebhookSecret
	}
	signature := services.SignWebhookPayload(secret, job.Payload)

	responseCode, responseBody := w.deliver(ctx, *merchant.WebhookURL, job.Payload, signature)
	success := responseCode >= 200 && responseCode < 300

	now := time.Now()
	log.Attempts = currentAttempt
	log.LastAttemptAt = &now
	log.ResponseCode = &responseCode
	log.ResponseBody = &responseBody

	switch {
	case success:
		log.Status = models.WebhookStatusSuccess
		log.NextRetryAt = nil
		if err := w.logs.Save(ctx, log); err != nil {
			return fmt.Errorf("save webhook log %s: %w", log.ID, err)
		}
		w.logger.Info("webhook delivered",
			zap.String("log_id", log.ID.String()),
			zap.String("event", job.Event),
			zap.Int("attempt", currentAttempt),
		)
		return nil

	case currentAttempt < models.MaxWebhookAttempts:
		delay := w.intervals[currentAttempt]
		retryAt := now.Add(delay)
		log.Status = models.WebhookStatusPending
		log.NextRetryAt = &retryAt
		if err := w.logs.Save(ctx, log); err != nil {
			return fmt.Errorf("save webhook log %s: %w", log.ID, err)
		}
		if err := w.requeue(ctx, &job, log, delay); err != nil {
			return err
		}
		w.logger.Warn("webhook delivery failed, retry scheduled",
			zap.String("log_id", log.ID.String()),
			zap.Int("attempt", currentAttempt),
			zap.Int("response_code", responseCode),
			zap.Duration("delay", delay),
		)
		return nil

	default:
		log.Status = models.WebhookStatusFailed
		log.NextRetryAt = nil
		if err := w.logs.Save(ctx, log); err != nil {
			return fmt.Errorf("save webhook log %s: %w", log.ID, err)
		}
		w.logger.Error("webhook failed permanently",
			zap.String("log_id", log.ID.String()),
			zap.String("event", job.Event),
			zap.Int("attempts", currentAttempt),
		)
		return nil
	}
}

// resolveLog reuses the log row named by the job, or creates a fresh one for
// a first attempt.
func (w *WebhookWorker) resolveLog(ctx context.Context, job *models.WebhookJob, merchantID uuid.UUID) (*models.WebhookLog, error) {
	if job.LogID != "" {
		logID, err := uuid.Parse(job.LogID)
		if err != nil {
			return nil, fmt.Errorf("invalid log id %q: %w", job.LogID, err)
		}
		log, err := w.logs.FindByID(ctx, logID)
		if err != nil {
			return nil, fmt.Errorf("load webhook log %s: %w", job.LogID, err)
		}
		return log, nil
	}

	log := &models.WebhookLog{
		ID:         uuid.New(),
		MerchantID: merchantID,
		Event:      job.Event,
		Payload:    string(job.Payload),
		Status:     models.WebhookStatusPending,
	}
	if err := w.logs.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("create webhook log: %w", err)
	}
	return log, nil
}

// deliver POSTs the signed payload. A transport-level failure (timeout,
// refused connection) records code 0 with the error message; it is treated
// the same as a non-2xx response.
func (w *WebhookWorker) deliver(ctx context.Context, url string, payload []byte, signature string) (int, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, err.Error()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", signature)

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, err.Error()
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	return resp.StatusCode, string(body)
}

func (w *WebhookWorker) requeue(ctx context.Context, job *models.WebhookJob, log *models.WebhookLog, delay time.Duration) error {
	retry, err := json.Marshal(models.WebhookJob{
		MerchantID: job.MerchantID,
		Event:      job.Event,
		Payload:    job.Payload,
		LogID:      log.ID.String(),
	})
	if err != nil {
		return fmt.Errorf("marshal webhook retry job: %w", err)
	}
	if err := w.queue.Enqueue(ctx, models.WebhookQueue, retry, delay); err != nil {
		return fmt.Errorf("enqueue webhook retry: %w", err)
	}
	return nil
}
