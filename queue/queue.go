// Package queue provides the named, durable, at-least-once job channel used
// by the settlement pipeline. Jobs may be admitted immediately or with a
// delay; delayed jobs are guaranteed not to run before their ready time, but
// no FIFO ordering is guaranteed across delays. Consumers must be idempotent:
// a job can be delivered more than once.
package queue

import (
	"context"
	"time"
)

// Handler processes one job payload. A non-nil error sends the job through
// the queue's generic retry policy and eventually to the failed count. This
// is distinct from any application-level retry (the webhook worker schedules
// its own backoff by re-enqueueing with a delay and returning nil).
type Handler func(ctx context.Context, payload []byte) error

// Counts is the per-queue observability snapshot.
type Counts struct {
	Waiting   int64 `json:"waiting"`
	Delayed   int64 `json:"delayed"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

type Queue interface {
	// Enqueue admits a job for consumption no earlier than now+delay.
	Enqueue(ctx context.Context, queueName string, payload []byte, delay time.Duration) error
	// Subscribe registers a concurrent consumer that receives jobs until
	// the queue is closed.
	Subscribe(queueName string, h Handler)
	// Counts reports the queue's job counters.
	Counts(ctx context.Context, queueName string) (Counts, error)
	Close() error
}

// Generic retry policy for handler errors, shared by both implementations.
const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 5 * time.Second
)

// envelope wraps a payload with the queue-level delivery attempt counter.
type envelope struct {
	ID       string `json:"id"`
	Payload  []byte `json:"payload"`
	Attempts int    `json:"attempts"`
}
