package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/usecase"
	"github.com/iho/ledgerlogic/internal/usecase/mocks"
)

func postedFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture()
	f.seedChart()
	ctx := context.Background()

	f.post(t, ctx, "cash", "capital", 1000, day("2024-01-02"))
	f.post(t, ctx, "cash", "sales", 400, day("2024-02-10"))
	f.post(t, ctx, "rent", "cash", 150, day("2024-02-15"))
	f.post(t, ctx, "cash", "payable", 200, day("2024-03-01"))
	return f
}

func TestStatementUseCase_Build(t *testing.T) {
	f := postedFixture(t)
	uc := usecase.NewStatementUseCase(f.accounts, f.journal, nil, nil, nil)
	ctx := context.Background()

	st, err := uc.Build(ctx, domain.DateRange{})
	require.NoError(t, err)

	assert.True(t, st.TotalAssets.Equal(decimal.NewFromInt(1450)), "assets %s", st.TotalAssets)
	assert.True(t, st.TotalLiabilities.Equal(decimal.NewFromInt(200)))
	assert.True(t, st.TotalEquity.Equal(decimal.NewFromInt(1000)))
	assert.True(t, st.NetIncome.Equal(decimal.NewFromInt(250)))
	assert.True(t, st.TotalAssets.Equal(st.TotalLiabilitiesAndEquity.Add(st.NetIncome)))

	feb := domain.DateRange{Start: ptr(day("2024-02-01")), End: ptr(day("2024-02-29"))}
	st, err = uc.Build(ctx, feb)
	require.NoError(t, err)
	assert.True(t, st.TotalRevenue.Equal(decimal.NewFromInt(400)))
	assert.True(t, st.TotalExpenses.Equal(decimal.NewFromInt(150)))
	assert.Empty(t, st.Liabilities.Accounts)

	empty := domain.DateRange{Start: ptr(day("2030-01-01")), End: ptr(day("2030-12-31"))}
	st, err = uc.Build(ctx, empty)
	require.NoError(t, err)
	assert.True(t, st.TotalAssets.IsZero())
	assert.True(t, st.NetIncome.IsZero())
	assert.Empty(t, st.Assets.Accounts)

	_, err = uc.Build(ctx, domain.DateRange{Start: ptr(day("2024-02-01")), End: ptr(day("2024-01-01"))})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStatementUseCase_Views(t *testing.T) {
	f := postedFixture(t)
	uc := usecase.NewStatementUseCase(f.accounts, f.journal, nil, nil, nil)
	ctx := context.Background()

	tb, err := uc.TrialBalance(ctx, domain.DateRange{})
	require.NoError(t, err)
	assert.True(t, tb.Balanced)
	assert.True(t, tb.TotalDebit.Equal(tb.TotalCredit))

	is, err := uc.IncomeStatement(ctx, domain.DateRange{})
	require.NoError(t, err)
	assert.True(t, is.NetIncome.Equal(decimal.NewFromInt(250)))

	bs, err := uc.BalanceSheet(ctx, domain.DateRange{})
	require.NoError(t, err)
	assert.True(t, bs.TotalAssets.Equal(decimal.NewFromInt(1450)))

	re, err := uc.RetainedEarnings(ctx, domain.DateRange{}, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, re.Ending.Equal(decimal.NewFromInt(350)))
}

func TestStatementUseCase_Build_UsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockStatementCache(ctrl)
	f := postedFixture(t)

	r := domain.DateRange{}
	cached := &domain.StatementTotals{NetIncome: decimal.NewFromInt(42)}

	gomock.InOrder(
		cache.EXPECT().Version(gomock.Any()).Return(int64(7), nil),
		cache.EXPECT().Get(gomock.Any(), int64(7), r.Key()).Return(cached, true, nil),
	)

	uc := usecase.NewStatementUseCase(f.accounts, f.journal, cache, nil, nil)
	st, err := uc.Build(context.Background(), r)
	require.NoError(t, err)
	assert.Same(t, cached, st)
}

func TestStatementUseCase_Build_StoresUnderReadVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockStatementCache(ctrl)
	f := postedFixture(t)

	r := domain.DateRange{Start: ptr(day("2024-01-01"))}

	cache.EXPECT().Version(gomock.Any()).Return(int64(3), nil)
	cache.EXPECT().Get(gomock.Any(), int64(3), r.Key()).Return(nil, false, nil)
	cache.EXPECT().Set(gomock.Any(), int64(3), r.Key(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ string, st *domain.StatementTotals) error {
			assert.True(t, st.NetIncome.Equal(decimal.NewFromInt(250)))
			return nil
		})

	uc := usecase.NewStatementUseCase(f.accounts, f.journal, cache, nil, nil)
	_, err := uc.Build(context.Background(), r)
	require.NoError(t, err)
}

func TestStatementUseCase_Build_CacheFailureFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockStatementCache(ctrl)
	f := postedFixture(t)

	cache.EXPECT().Version(gomock.Any()).Return(int64(0), errors.New("redis down"))

	uc := usecase.NewStatementUseCase(f.accounts, f.journal, cache, nil, nil)
	st, err := uc.Build(context.Background(), domain.DateRange{})
	require.NoError(t, err)
	assert.True(t, st.NetIncome.Equal(decimal.NewFromInt(250)))
}

func TestStatementUseCase_Build_CoalescesConcurrentBuilds(t *testing.T) {
	f := postedFixture(t)

	chart, err := f.accounts.ListAll(context.Background())
	require.NoError(t, err)

	var loads atomic.Int32
	release := make(chan struct{})
	f.accounts.ListAllFunc = func(ctx context.Context) ([]*domain.Account, error) {
		loads.Add(1)
		<-release
		return chart, nil
	}

	uc := usecase.NewStatementUseCase(f.accounts, f.journal, nil, nil, nil)

	const callers = 5
	var started, done sync.WaitGroup
	results := make([]*domain.StatementTotals, callers)
	for i := range callers {
		started.Add(1)
		done.Add(1)
		go func() {
			defer done.Done()
			started.Done()
			st, err := uc.Build(context.Background(), domain.DateRange{})
			assert.NoError(t, err)
			results[i] = st
		}()
	}
	started.Wait()
	close(release)
	done.Wait()

	assert.LessOrEqual(t, loads.Load(), int32(callers))
	for _, st := range results {
		require.NotNil(t, st)
		assert.True(t, st.NetIncome.Equal(decimal.NewFromInt(250)))
	}
}

func TestStatementUseCase_BuildPeriods(t *testing.T) {
	f := postedFixture(t)
	pool, err := ants.NewPool(2)
	require.NoError(t, err)
	defer pool.Release()

	uc := usecase.NewStatementUseCase(f.accounts, f.journal, nil, pool, nil)

	ranges := []domain.DateRange{
		{Start: ptr(day("2024-01-01")), End: ptr(day("2024-01-31"))},
		{Start: ptr(day("2024-02-01")), End: ptr(day("2024-02-29"))},
		{Start: ptr(day("2024-03-01")), End: ptr(day("2024-03-31"))},
	}

	results, err := uc.BuildPeriods(context.Background(), ranges)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, st := range results {
		assert.Equal(t, ranges[i].Key(), st.Range.Key(), "result %d out of order", i)
	}
	assert.True(t, results[0].TotalEquity.Equal(decimal.NewFromInt(1000)))
	assert.True(t, results[1].NetIncome.Equal(decimal.NewFromInt(250)))
	assert.True(t, results[2].TotalLiabilities.Equal(decimal.NewFromInt(200)))
}

func TestStatementUseCase_BuildPeriods_Validation(t *testing.T) {
	f := newFixture()
	uc := usecase.NewStatementUseCase(f.accounts, f.journal, nil, nil, nil)
	ctx := context.Background()

	_, err := uc.BuildPeriods(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.BuildPeriods(ctx, make([]domain.DateRange, usecase.MaxComparativePeriods+1))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.BuildPeriods(ctx, []domain.DateRange{
		{},
		{Start: ptr(day("2024-05-01")), End: ptr(day("2024-04-01"))},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestStatementUseCase_BuildPeriods_SubmitFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	pool := mocks.NewMockTaskSubmitter(ctrl)
	pool.EXPECT().Submit(gomock.Any()).Return(ants.ErrPoolClosed)

	f := newFixture()
	uc := usecase.NewStatementUseCase(f.accounts, f.journal, nil, pool, nil)

	_, err := uc.BuildPeriods(context.Background(), []domain.DateRange{{}})
	assert.ErrorIs(t, err, ants.ErrPoolClosed)
}
