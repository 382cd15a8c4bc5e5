package workers_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maharshi0143/Payment-Gateway/models"
	"github.com/maharshi0143/Payment-Gateway/queue"
)

// ---- mock payment repository ----

type mockPaymentRepo struct {
	payments map[string]*models.Payment
	saveErr  error
	saves    int
}

func newMockPaymentRepo(payments ...*models.Payment) *mockPaymentRepo {
	m := &mockPaymentRepo{payments: make(map[string]*models.Payment)}
	for _, p := range payments {
		m.payments[p.ID] = p
	}
	return m
}

func (m *mockPaymentRepo) Create(_ context.Context, p *models.Payment) error {
	m.payments[p.ID] = p
	return nil
}

func (m *mockPaymentRepo) FindByID(_ context.Context, id string) (*models.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockPaymentRepo) Save(_ context.Context, p *models.Payment) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.payments[p.ID] = p
	return nil
}

func (m *mockPaymentRepo) ListByMerchant(context.Context, uuid.UUID) ([]models.Payment, error) {
	return nil, nil
}

// ---- mock refund repository ----

type mockRefundRepo struct {
	refunds map[string]*models.Refund
	sumErr  error
}

func newMockRefundRepo(refunds ...*models.Refund) *mockRefundRepo {
	m := &mockRefundRepo{refunds: make(map[string]*models.Refund)}
	for _, r := range refunds {
		m.refunds[r.ID] = r
	}
	return m
}

func (m *mockRefundRepo) Create(_ context.Context, r *models.Refund) error {
	m.refunds[r.ID] = r
	return nil
}

func (m *mockRefundRepo) FindByID(_ context.Context, id string) (*models.Refund, error) {
	r, ok := m.refunds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (m *mockRefundRepo) Save(_ context.Context, r *models.Refund) error {
	m.refunds[r.ID] = r
	return nil
}

func (m *mockRefundRepo) SumActiveByPaymentID(_ context.Context, paymentID string) (int64, error) {
	if m.sumErr != nil {
		return 0, m.sumErr
	}
	var total int64
	for _, r := range m.refunds {
		if r.PaymentID == paymentID && (r.Status == models.RefundStatusPending || r.Status == models.RefundStatusProcessed) {
			total += r.Amount
		}
	}
	return total, nil
}

// ---- mock merchant repository ----

type mockMerchantRepo struct {
	merchants map[uuid.UUID]*models.Merchant
}

func newMockMerchantRepo(merchants ...*models.Merchant) *mockMerchantRepo {
	m := &mockMerchantRepo{merchants: make(map[uuid.UUID]*models.Merchant)}
	for _, mer := range merchants {
		m.merchants[mer.ID] = mer
	}
	return m
}

func (m *mockMerchantRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Merchant, error) {
	mer, ok := m.merchants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return mer, nil
}

func (m *mockMerchantRepo) FindByAPIKey(context.Context, string) (*models.Merchant, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMerchantRepo) FindByEmail(context.Context, string) (*models.Merchant, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMerchantRepo) UpdateWebhookURL(context.Context, uuid.UUID, string) error    { return nil }
func (m *mockMerchantRepo) UpdateWebhookSecret(context.Context, uuid.UUID, string) error { return nil }

// ---- mock webhook log repository ----

type mockWebhookLogRepo struct {
	logs map[uuid.UUID]*models.WebhookLog
}

func newMockWebhookLogRepo(logs ...*models.WebhookLog) *mockWebhookLogRepo {
	m := &mockWebhookLogRepo{logs: make(map[uuid.UUID]*models.WebhookLog)}
	for _, l := range logs {
		m.logs[l.ID] = l
	}
	return m
}

func (m *mockWebhookLogRepo) Create(_ context.Context, l *models.WebhookLog) error {
	m.logs[l.ID] = l
	return nil
}

func (m *mockWebhookLogRepo) FindByID(_ context.Context, id uuid.UUID) (*models.WebhookLog, error) {
	l, ok := m.logs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (m *mockWebhookLogRepo) Save(_ context.Context, l *models.WebhookLog) error {
	m.logs[l.ID] = l
	return nil
}

func (m *mockWebhookLogRepo) ListByMerchant(context.Context, uuid.UUID, int, int) ([]models.WebhookLog, int64, error) {
	return nil, 0, nil
}

func (m *mockWebhookLogRepo) single() *models.WebhookLog {
	for _, l := range m.logs {
		return l
	}
	return nil
}

// ---- recording queue ----

type enqueuedJob struct {
	Queue   string
	Payload []byte
	Delay   time.Duration
}

// recordingQueue captures enqueues instead of executing them, so tests can
// assert on the jobs a worker schedules.
type recordingQueue struct {
	mu   sync.Mutex
	jobs []enqueuedJob
}

func (q *recordingQueue) Enqueue(_ context.Context, queueName string, payload []byte, delay time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, enqueuedJob{Queue: queueName, Payload: payload, Delay: delay})
	return nil
}

func (q *recordingQueue) Subscribe(string, queue.Handler) {}

func (q *recordingQueue) Counts(context.Context, string) (queue.Counts, error) {
	return queue.Counts{}, nil
}

func (q *recordingQueue) Close() error { return nil }

func (q *recordingQueue) all() []enqueuedJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]enqueuedJob(nil), q.jobs...)
}
