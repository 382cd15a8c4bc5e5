package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maharshi0143/Payment-Gateway/apperrors"
	"github.com/maharshi0143/Payment-Gateway/middleware"
	"github.com/maharshi0143/Payment-Gateway/models"
	"github.com/maharshi0143/Payment-Gateway/queue"
	"github.com/maharshi0143/Payment-Gateway/repository"
)

type WebhookController struct {
	Logs   repository.WebhookLogRepository
	Queue  queue.Queue
	Logger *zap.Logger
}

// GetWebhookLogs handles GET /api/v1/webhooks with limit/offset paging.
func (wc *WebhookController) GetWebhookLogs(c *gin.Context) {
	merchant := middleware.GetMerchant(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	logs, total, err := wc.Logs.ListByMerchant(c.Request.Context(), merchant.ID, limit, offset)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   logs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// RetryWebhook handles POST /api/v1/webhooks/:webhook_id/retry: resets a
// terminal log and requeues it, re-entering the finite-retry lifecycle.
func (wc *WebhookController) RetryWebhook(c *gin.Context) {
	merchant := middleware.GetMerchant(c)
	ctx := c.Request.Context()

	logID, err := uuid.Parse(c.Param("webhook_id"))
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotFound.WithDescription("Webhook log not found"))
		return
	}

	log, err := wc.Logs.FindByID(ctx, logID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apperrors.Respond(c, apperrors.ErrNotFound.WithDescription("Webhook log not found"))
		return
	}
	if err != nil {
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}
	if log.MerchantID != merchant.ID {
		apperrors.Respond(c, apperrors.ErrNotFound.WithDescription("Webhook log not found"))
		return
	}

	log.ResetForRetry()
	if err := wc.Logs.Save(ctx, log); err != nil {
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}

	job, _ := json.Marshal(models.WebhookJob{
		MerchantID: log.MerchantID.String(),
		Event:      log.Event,
		Payload:    json.RawMessage(log.Payload),
		LogID:      log.ID.String(),
	})
	if err := wc.Queue.Enqueue(ctx, models.WebhookQueue, job, 0); err != nil {
		wc.Logger.Error("enqueue webhook retry failed", zap.String("log_id", log.ID.String()), zap.Error(err))
		apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      log.ID,
		"status":  models.WebhookStatusPending,
		"message": "Webhook retry scheduled",
	})
}

// GetJobStatus handles GET /api/v1/jobs/status: per-queue counters for
// observability.
func (wc *WebhookController) GetJobStatus(c *gin.Context) {
	ctx := c.Request.Context()

	status := make(map[string]queue.Counts, 3)
	for _, name := range []string{models.PaymentQueue, models.RefundQueue, models.WebhookQueue} {
		counts, err := wc.Queue.Counts(ctx, name)
		if err != nil {
			apperrors.Respond(c, apperrors.ErrInternalServer.Wrap(err))
			return
		}
		status[name] = counts
	}

	c.JSON(http.StatusOK, status)
}
