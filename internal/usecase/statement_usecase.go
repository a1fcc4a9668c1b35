package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/infrastructure/metrics"
)

// MaxComparativePeriods caps the ranges accepted by BuildPeriods.
const MaxComparativePeriods = 24

// StatementUseCase builds financial statements over date ranges.
type StatementUseCase struct {
	accountRepo AccountRepository
	journalRepo JournalRepository
	cache       StatementCache
	pool        TaskSubmitter
	group       singleflight.Group
	metrics     *metrics.Metrics
}

// NewStatementUseCase creates a new StatementUseCase. cache and pool may be nil;
// without a pool comparative periods are built sequentially.
func NewStatementUseCase(
	accountRepo AccountRepository,
	journalRepo JournalRepository,
	cache StatementCache,
	pool TaskSubmitter,
	metrics *metrics.Metrics,
) *StatementUseCase {
	return &StatementUseCase{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		cache:       cache,
		pool:        pool,
		metrics:     metrics,
	}
}

// Build returns the statement totals for r, served from cache when possible.
// Concurrent builds of the same range share one computation.
func (uc *StatementUseCase) Build(ctx context.Context, r domain.DateRange) (*domain.StatementTotals, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	key := r.Key()
	version := uc.cacheVersion(ctx)

	if version >= 0 {
		st, ok, err := uc.cache.Get(ctx, version, key)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("range", key).Msg("statement cache read failed")
		} else if ok {
			uc.count("cache")
			if uc.metrics != nil {
				uc.metrics.StatementCacheHits.Inc()
			}
			return st, nil
		}
		if uc.metrics != nil {
			uc.metrics.StatementCacheMisses.Inc()
		}
	}

	flightKey := strconv.FormatInt(version, 10) + "|" + key
	ch := uc.group.DoChan(flightKey, func() (any, error) {
		// Detached from the first caller so one cancelled request does
		// not fail the others waiting on the same build.
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statementBuildTimeout)
		defer cancel()

		st, err := uc.build(buildCtx, r)
		if err != nil {
			return nil, err
		}

		if version >= 0 {
			if err := uc.cache.Set(buildCtx, version, key, st); err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("range", key).Msg("statement cache write failed")
			}
		}
		return st, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			uc.count("shared")
		}
		return res.Val.(*domain.StatementTotals), nil
	}
}

func (uc *StatementUseCase) build(ctx context.Context, r domain.DateRange) (*domain.StatementTotals, error) {
	start := time.Now()

	accounts, err := uc.accountRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	entries, err := uc.journalRepo.ListApproved(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("load approved entries: %w", err)
	}

	st := domain.BuildStatement(accounts, entries, r)
	st.GeneratedAt = time.Now().UTC()

	uc.count("computed")
	if uc.metrics != nil {
		uc.metrics.StatementDuration.Observe(time.Since(start).Seconds())
	}

	return st, nil
}

// cacheVersion returns the current cache version, or -1 when the cache is
// unavailable and statements must be computed directly.
func (uc *StatementUseCase) cacheVersion(ctx context.Context) int64 {
	if uc.cache == nil {
		return -1
	}
	v, err := uc.cache.Version(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("statement cache unavailable")
		return -1
	}
	return v
}

func (uc *StatementUseCase) count(source string) {
	if uc.metrics != nil {
		uc.metrics.StatementBuilds.WithLabelValues(source).Inc()
	}
}

// TrialBalance returns per-account debit and credit totals for r.
func (uc *StatementUseCase) TrialBalance(ctx context.Context, r domain.DateRange) (domain.TrialBalance, error) {
	st, err := uc.Build(ctx, r)
	if err != nil {
		return domain.TrialBalance{}, err
	}
	return st.TrialBalance(), nil
}

// IncomeStatement returns the revenue and expense view for r.
func (uc *StatementUseCase) IncomeStatement(ctx context.Context, r domain.DateRange) (domain.IncomeStatement, error) {
	st, err := uc.Build(ctx, r)
	if err != nil {
		return domain.IncomeStatement{}, err
	}
	return st.IncomeStatement(), nil
}

// BalanceSheet returns the asset, liability and equity view for r.
func (uc *StatementUseCase) BalanceSheet(ctx context.Context, r domain.DateRange) (domain.BalanceSheet, error) {
	st, err := uc.Build(ctx, r)
	if err != nil {
		return domain.BalanceSheet{}, err
	}
	return st.BalanceSheet(), nil
}

// RetainedEarnings returns beginning + net income - dividends for r.
func (uc *StatementUseCase) RetainedEarnings(ctx context.Context, r domain.DateRange, beginning decimal.Decimal) (domain.RetainedEarnings, error) {
	st, err := uc.Build(ctx, r)
	if err != nil {
		return domain.RetainedEarnings{}, err
	}
	return st.RetainedEarnings(beginning), nil
}

// BuildPeriods builds one statement per range on the worker pool.
// Results are returned in input order.
func (uc *StatementUseCase) BuildPeriods(ctx context.Context, ranges []domain.DateRange) ([]*domain.StatementTotals, error) {
	if len(ranges) == 0 {
		return nil, domain.NewValidationError("periods", "at least one period is required")
	}
	if len(ranges) > MaxComparativePeriods {
		return nil, domain.NewValidationError("periods", fmt.Sprintf("at most %d periods are allowed", MaxComparativePeriods))
	}
	for i, r := range ranges {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("period %d: %w", i+1, err)
		}
	}

	results := make([]*domain.StatementTotals, len(ranges))
	errs := make([]error, len(ranges))

	var wg sync.WaitGroup
	for i, r := range ranges {
		task := func() {
			defer wg.Done()
			results[i], errs[i] = uc.Build(ctx, r)
		}

		wg.Add(1)
		if uc.pool == nil {
			task()
			continue
		}
		if err := uc.pool.Submit(task); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("schedule period %d: %w", i+1, err)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
