package usecase

import (
	"context"

	"github.com/iho/ledgerlogic/internal/domain"
)

//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

// StatementCache stores built statements under a version that is bumped
// whenever approved activity or the chart of accounts changes. Callers read
// the version once and use it for both lookup and store, so a build that
// raced an invalidation is filed under the old version.
type StatementCache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, version int64, key string) (*domain.StatementTotals, bool, error)
	Set(ctx context.Context, version int64, key string, st *domain.StatementTotals) error
	Invalidate(ctx context.Context) error
}

// TaskSubmitter runs tasks on a bounded worker pool.
type TaskSubmitter interface {
	Submit(task func()) error
}
