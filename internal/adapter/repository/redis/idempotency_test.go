package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerlogic/internal/usecase"
)

const replayKey = "user-1:POST:/api/v1/journal/groups:abc"

func TestIdempotencyStoreClaimLifecycle(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, stored, err := store.CheckAndSet(ctx, replayKey, nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, stored)
	assert.Equal(t, time.Minute, mr.TTL(store.key(replayKey)))

	exists, stored, err = store.CheckAndSet(ctx, replayKey, nil, time.Minute)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, usecase.IdempotencyPending, string(stored))

	require.NoError(t, store.Update(ctx, replayKey, []byte(`{"status":201}`), time.Hour))
	exists, stored, err = store.CheckAndSet(ctx, replayKey, nil, time.Minute)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.JSONEq(t, `{"status":201}`, string(stored))
	assert.Equal(t, time.Hour, mr.TTL(store.key(replayKey)))

	require.NoError(t, store.Release(ctx, replayKey))
	assert.False(t, mr.Exists(store.key(replayKey)))
}

func TestIdempotencyStoreClaimWithResponse(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client)

	exists, _, err := store.CheckAndSet(context.Background(), "direct", []byte("body"), time.Minute)
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := mr.Get(store.key("direct"))
	require.NoError(t, err)
	assert.Equal(t, "body", got)
}

func TestIdempotencyStoreExpiredClaimCanBeRetaken(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	_, _, err := store.CheckAndSet(ctx, replayKey, nil, time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	exists, _, err := store.CheckAndSet(ctx, replayKey, nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIdempotencyStoreUnavailable(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	mr.Close()

	_, _, err := store.CheckAndSet(context.Background(), replayKey, nil, time.Minute)
	assert.Error(t, err)
}
