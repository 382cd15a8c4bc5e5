package workers

import (
	"go.uber.org/zap"

	"github.com/maharshi0143/Payment-Gateway/models"
	"github.com/maharshi0143/Payment-Gateway/queue"
)

// Manager wires the three settlement workers to their queues.
type Manager struct {
	payment *PaymentWorker
	refund  *RefundWorker
	webhook *WebhookWorker
	logger  *zap.Logger
}

func NewManager(payment *PaymentWorker, refund *RefundWorker, webhook *WebhookWorker, logger *zap.Logger) *Manager {
	return &Manager{payment: payment, refund: refund, webhook: webhook, logger: logger}
}

// Start subscribes every worker. Consumers run until the queue is closed;
// each queue makes progress independently of the others.
func (m *Manager) Start(q queue.Queue) {
	q.Subscribe(models.PaymentQueue, m.payment.Handle)
	q.Subscribe(models.RefundQueue, m.refund.Handle)
	q.Subscribe(models.WebhookQueue, m.webhook.Handle)
	m.logger.Info("Worker started processing queues")
}
