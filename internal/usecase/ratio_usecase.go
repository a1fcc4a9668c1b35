package usecase

import (
	"context"
	"maps"

	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/infrastructure/metrics"
)

// StatementSource builds statement totals for a range.
type StatementSource interface {
	Build(ctx context.Context, r domain.DateRange) (*domain.StatementTotals, error)
}

// RatioUseCase computes the ratio dashboard.
type RatioUseCase struct {
	statements StatementSource
	thresholds domain.Thresholds
	metrics    *metrics.Metrics
}

// NewRatioUseCase creates a new RatioUseCase. A nil thresholds map selects the defaults.
func NewRatioUseCase(statements StatementSource, thresholds domain.Thresholds, metrics *metrics.Metrics) *RatioUseCase {
	if thresholds == nil {
		thresholds = domain.DefaultThresholds()
	}
	return &RatioUseCase{
		statements: statements,
		thresholds: thresholds,
		metrics:    metrics,
	}
}

// Dashboard pairs the statement totals of a range with their ratios.
type Dashboard struct {
	Statement *domain.StatementTotals
	Ratios    []domain.Ratio
}

// Compute returns every ratio for r in dashboard order.
func (uc *RatioUseCase) Compute(ctx context.Context, r domain.DateRange) ([]domain.Ratio, error) {
	d, err := uc.Dashboard(ctx, r)
	if err != nil {
		return nil, err
	}
	return d.Ratios, nil
}

// Dashboard builds the statement for r and classifies its ratios.
func (uc *RatioUseCase) Dashboard(ctx context.Context, r domain.DateRange) (*Dashboard, error) {
	st, err := uc.statements.Build(ctx, r)
	if err != nil {
		return nil, err
	}

	computed := domain.ComputeRatios(st, uc.thresholds)
	ratios := make([]domain.Ratio, 0, len(computed))
	for _, name := range domain.RatioNames {
		ratio := computed[name]
		ratios = append(ratios, ratio)
		if uc.metrics != nil {
			uc.metrics.RatioSignals.WithLabelValues(string(name), string(ratio.Signal)).Inc()
		}
	}

	return &Dashboard{Statement: st, Ratios: ratios}, nil
}

// Thresholds returns a copy of the thresholds in effect.
func (uc *RatioUseCase) Thresholds() domain.Thresholds {
	return maps.Clone(uc.thresholds)
}
