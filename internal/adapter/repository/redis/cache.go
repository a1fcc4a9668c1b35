package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/ledgerlogic/internal/domain"
)

// DefaultStatementTTL bounds how long a cached statement survives without invalidation.
const DefaultStatementTTL = 10 * time.Minute

// StatementCache implements usecase.StatementCache using Redis.
//
// Entries are keyed by a version counter. Invalidate bumps the counter, so
// stale entries are never read again and expire on their own.
type StatementCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStatementCache creates a new StatementCache. A non-positive ttl uses DefaultStatementTTL.
func NewStatementCache(client *redis.Client, ttl time.Duration) *StatementCache {
	if ttl <= 0 {
		ttl = DefaultStatementTTL
	}

	return &StatementCache{
		client: client,
		prefix: "statements:2:", // layout generation of the cached totals
		ttl:    ttl,
	}
}

// Version returns the current cache generation. A missing counter is generation zero.
func (c *StatementCache) Version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	return v, err
}

// Get returns the statement cached for key under version.
func (c *StatementCache) Get(ctx context.Context, version int64, key string) (*domain.StatementTotals, bool, error) {
	data, err := c.client.Get(ctx, c.entryKey(version, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var st domain.StatementTotals
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, false, err
	}

	return &st, true, nil
}

// Set stores st for key under version.
func (c *StatementCache) Set(ctx context.Context, version int64, key string, st *domain.StatementTotals) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.entryKey(version, key), data, c.ttl).Err()
}

// Invalidate moves the cache to a new generation.
func (c *StatementCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.versionKey()).Err()
}

func (c *StatementCache) versionKey() string {
	return c.prefix + "version"
}

func (c *StatementCache) entryKey(version int64, key string) string {
	return c.prefix + "v" + strconv.FormatInt(version, 10) + ":" + key
}
