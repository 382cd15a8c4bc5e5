package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIdempotencyCache_HitAndMiss(t *testing.T) {
	cache := NewMemoryIdempotencyCache()
	ctx := context.Background()
	merchant := uuid.New()

	_, hit, err := cache.Get(ctx, "idem-1", merchant)
	require.NoError(t, err)
	assert.False(t, hit)

	response := []byte(`{"id":"pay_abc"}`)
	require.NoError(t, cache.Put(ctx, "idem-1", merchant, response, time.Hour))

	got, hit, err := cache.Get(ctx, "idem-1", merchant)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, response, got)
}

func TestMemoryIdempotencyCache_ExpiredEntryIsMiss(t *testing.T) {
	cache := NewMemoryIdempotencyCache()
	ctx := context.Background()
	merchant := uuid.New()

	require.NoError(t, cache.Put(ctx, "idem-ttl", merchant, []byte(`{}`), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, hit, err := cache.Get(ctx, "idem-ttl", merchant)
	require.NoError(t, err)
	assert.False(t, hit, "expired entry must be treated as absent")
}

func TestMemoryIdempotencyCache_KeysAreScopedPerMerchant(t *testing.T) {
	cache := NewMemoryIdempotencyCache()
	ctx := context.Background()

	merchantA := uuid.New()
	merchantB := uuid.New()
	require.NoError(t, cache.Put(ctx, "shared-key", merchantA, []byte(`{"m":"a"}`), time.Hour))

	_, hit, err := cache.Get(ctx, "shared-key", merchantB)
	require.NoError(t, err)
	assert.False(t, hit, "another merchant must not see the cached response")
}

func TestMemoryIdempotencyCache_OverwriteWins(t *testing.T) {
	// Two concurrent identical requests can both miss; the second Put is a
	// harmless overwrite (last write wins).
	cache := NewMemoryIdempotencyCache()
	ctx := context.Background()
	merchant := uuid.New()

	require.NoError(t, cache.Put(ctx, "race-key", merchant, []byte(`{"v":1}`), time.Hour))
	require.NoError(t, cache.Put(ctx, "race-key", merchant, []byte(`{"v":2}`), time.Hour))

	got, hit, err := cache.Get(ctx, "race-key", merchant)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte(`{"v":2}`), got)
}
