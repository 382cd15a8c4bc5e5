package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// MemoryQueue is an in-process Queue with the same contract as RedisQueue.
// It backs local development without Redis and lets tests drive the pipeline
// without infrastructure.
type MemoryQueue struct {
	MaxAttempts int
	RetryDelay  time.Duration

	mu     sync.Mutex
	queues map[string]*memQueue

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type memQueue struct {
	jobs chan envelope

	delayed   atomic.Int64
	active    atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

func NewMemoryQueue() *MemoryQueue {
	ctx, cancel := context.WithCancel(context.Background())
	return &MemoryQueue{
		MaxAttempts: defaultMaxAttempts,
		RetryDelay:  defaultRetryDelay,
		queues:      make(map[string]*memQueue),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (q *MemoryQueue) get(queueName string) *memQueue {
	q.mu.Lock()
	defer q.mu.Unlock()
	mq, ok := q.queues[queueName]
	if !ok {
		mq = &memQueue{jobs: make(chan envelope, 1024)}
		q.queues[queueName] = mq
	}
	return mq
}

func (q *MemoryQueue) Enqueue(_ context.Context, queueName string, payload []byte, delay time.Duration) error {
	mq := q.get(queueName)
	env := envelope{ID: uuid.NewString(), Payload: payload}
	q.schedule(mq, env, delay)
	return nil
}

func (q *MemoryQueue) schedule(mq *memQueue, env envelope, delay time.Duration) {
	if delay <= 0 {
		q.push(mq, env)
		return
	}
	mq.delayed.Add(1)
	time.AfterFunc(delay, func() {
		mq.delayed.Add(-1)
		q.push(mq, env)
	})
}

func (q *MemoryQueue) push(mq *memQueue, env envelope) {
	select {
	case mq.jobs <- env:
	case <-q.ctx.Done():
	}
}

func (q *MemoryQueue) Subscribe(queueName string, h Handler) {
	mq := q.get(queueName)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-q.ctx.Done():
				return
			case env := <-mq.jobs:
				q.process(mq, env, h)
			}
		}
	}()
}

func (q *MemoryQueue) process(mq *memQueue, env envelope, h Handler) {
	mq.active.Add(1)
	err := h(q.ctx, env.Payload)
	mq.active.Add(-1)

	if err == nil {
		mq.completed.Add(1)
		return
	}

	env.Attempts++
	if env.Attempts >= q.MaxAttempts {
		mq.failed.Add(1)
		return
	}
	q.schedule(mq, env, q.RetryDelay)
}

func (q *MemoryQueue) Counts(_ context.Context, queueName string) (Counts, error) {
	mq := q.get(queueName)
	return Counts{
		Waiting:   int64(len(mq.jobs)),
		Delayed:   mq.delayed.Load(),
		Active:    mq.active.Load(),
		Completed: mq.completed.Load(),
		Failed:    mq.failed.Load(),
	}, nil
}

func (q *MemoryQueue) Close() error {
	q.cancel()
	q.wg.Wait()
	return nil
}
