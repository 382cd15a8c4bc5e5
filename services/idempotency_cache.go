package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// IdempotencyCache maps (merchant, client-supplied idempotency key) to the
// previously computed payment-creation response. Entries expire after the
// TTL; an expired entry is a miss. Only the API layer touches this cache.
//
// Race policy: two concurrent identical requests can both miss and both
// store; the second Put is a harmless overwrite because both responses
// derive from the same created payment. Last write wins.
type IdempotencyCache interface {
	Get(ctx context.Context, key string, merchantID uuid.UUID) ([]byte, bool, error)
	Put(ctx context.Context, key string, merchantID uuid.UUID, response []byte, ttl time.Duration) error
}

// --- Redis implementation ---

type redisIdempotencyCache struct {
	client *redis.Client
}

func NewRedisIdempotencyCache(client *redis.Client) IdempotencyCache {
	return &redisIdempotencyCache{client: client}
}

func idemKey(merchantID uuid.UUID, key string) string {
	return fmt.Sprintf("idem:payment:%s:%s", merchantID, key)
}

func (c *redisIdempotencyCache) Get(ctx context.Context, key string, merchantID uuid.UUID) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, idemKey(merchantID, key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *redisIdempotencyCache) Put(ctx context.Context, key string, merchantID uuid.UUID, response []byte, ttl time.Duration) error {
	return c.client.Set(ctx, idemKey(merchantID, key), response, ttl).Err()
}

// --- In-memory implementation (tests, local development) ---

type memoryIdempotencyCache struct {
	mu      sync.Mutex
	entries map[string]memoryIdemEntry
}

type memoryIdemEntry struct {
	response  []byte
	expiresAt time.Time
}

func NewMemoryIdempotencyCache() IdempotencyCache {
	return &memoryIdempotencyCache{entries: make(map[string]memoryIdemEntry)}
}

func (c *memoryIdempotencyCache) Get(_ context.Context, key string, merchantID uuid.UUID) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := idemKey(merchantID, key)
	entry, ok := c.entries[k]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		// lazy eviction
		delete(c.entries, k)
		return nil, false, nil
	}
	return entry.response, true, nil
}

func (c *memoryIdempotencyCache) Put(_ context.Context, key string, merchantID uuid.UUID, response []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[idemKey(merchantID, key)] = memoryIdemEntry{
		response:  response,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}
