package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Journal metrics
	JournalSubmitted      prometheus.Counter
	JournalReviews        *prometheus.CounterVec
	JournalLines          prometheus.Histogram
	JournalErrors         *prometheus.CounterVec
	JournalSubmitDuration prometheus.Histogram
	EntryComments         prometheus.Counter

	// Statement metrics
	StatementBuilds      *prometheus.CounterVec
	StatementDuration    prometheus.Histogram
	StatementCacheHits   prometheus.Counter
	StatementCacheMisses prometheus.Counter

	// Ratio metrics
	RatioSignals *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter

	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge
	HTTPPanics          *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerlogic_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlogic_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		// Journal metrics
		JournalSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerlogic_journal_groups_submitted_total",
			Help: "Total number of journal groups submitted",
		}),
		JournalReviews: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlogic_journal_reviews_total",
				Help: "Total journal group reviews by decision",
			},
			[]string{"decision"},
		),
		JournalLines: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerlogic_journal_group_lines",
			Help:    "Number of lines per submitted journal group",
			Buckets: []float64{2, 3, 4, 6, 10, 20, 50, 100, 200},
		}),
		JournalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlogic_journal_errors_total",
				Help: "Total number of rejected journal submissions by type",
			},
			[]string{"error_type"},
		),
		JournalSubmitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerlogic_journal_submit_duration_seconds",
			Help:    "Duration of journal submissions",
			Buckets: prometheus.DefBuckets,
		}),
		EntryComments: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerlogic_entry_comments_total",
			Help: "Total number of comments attached to journal entries",
		}),

		// Statement metrics
		StatementBuilds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlogic_statement_builds_total",
				Help: "Total statement builds by source",
			},
			[]string{"source"},
		),
		StatementDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerlogic_statement_build_duration_seconds",
			Help:    "Duration of statement builds",
			Buckets: prometheus.DefBuckets,
		}),
		StatementCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerlogic_statement_cache_hits_total",
			Help: "Total statement cache hits",
		}),
		StatementCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerlogic_statement_cache_misses_total",
			Help: "Total statement cache misses",
		}),

		// Ratio metrics
		RatioSignals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlogic_ratio_signals_total",
				Help: "Computed ratio signals by ratio and colour",
			},
			[]string{"ratio", "signal"},
		),

		// Outbox metrics
		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerlogic_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerlogic_outbox_errors_total",
			Help: "Total outbox publish failures",
		}),

		// HTTP metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlogic_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerlogic_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),

		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerlogic_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
		HTTPPanics: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlogic_http_panics_total",
				Help: "Handler panics recovered, by route",
			},
			[]string{"route"},
		),

		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlogic_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlogic_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"method"},
		),

		// Audit metrics
		AuditLogsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlogic_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
