package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/ledgerlogic/internal/usecase"
)

const (
	idempotencyPrefix = "ledgerlogic:idem:"

	// claimAttempts bounds the SETNX/GET loop when a key keeps expiring
	// between the two calls.
	claimAttempts = 3
)

var errClaimRace = errors.New("idempotency key expired while being read")

// IdempotencyStore keeps request claims and replayable responses in Redis.
type IdempotencyStore struct {
	client *redis.Client
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

func (s *IdempotencyStore) key(k string) string {
	return idempotencyPrefix + k
}

// CheckAndSet claims key. A taken key yields its stored value, which is
// usecase.IdempotencyPending while the first request is still in flight.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	var value any = usecase.IdempotencyPending
	if response != nil {
		value = response
	}

	for range claimAttempts {
		claimed, err := s.client.SetNX(ctx, s.key(key), value, ttl).Result()
		if err != nil {
			return false, nil, fmt.Errorf("claim idempotency key: %w", err)
		}
		if claimed {
			return false, nil, nil
		}

		existing, err := s.client.Get(ctx, s.key(key)).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case err != nil:
			return false, nil, fmt.Errorf("read idempotency key: %w", err)
		}
		return true, existing, nil
	}

	return false, nil, errClaimRace
}

// Update replaces the pending marker with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(key), response, ttl).Err()
}

// Release drops the claim so the client may retry.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}
