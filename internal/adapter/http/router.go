package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerlogic/internal/adapter/http/handler"
	"github.com/iho/ledgerlogic/internal/adapter/http/middleware"
	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/infrastructure/metrics"
	"github.com/iho/ledgerlogic/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	JournalHandler   *handler.JournalHandler
	LedgerHandler    *handler.LedgerHandler
	StatementHandler *handler.StatementHandler
	RatioHandler     *handler.RatioHandler
	HealthHandler    *handler.HealthHandler

	// Optional
	Authenticator    *middleware.Authenticator
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Metrics))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	authenticator := cfg.Authenticator
	if authenticator == nil {
		authenticator = middleware.NewAuthenticator(nil, false, cfg.Metrics)
	}

	viewer := middleware.RequireRole(domain.RoleViewer)
	accountant := middleware.RequireRole(domain.RoleAccountant)
	manager := middleware.RequireRole(domain.RoleManager)
	admin := middleware.RequireRole(domain.RoleAdmin)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticator.Authenticate)

		// Idempotency runs after authentication so keys are scoped per caller.
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.With(viewer).Get("/", cfg.AccountHandler.List)
			r.With(viewer).Get("/{id}", cfg.AccountHandler.Get)
			r.With(viewer).Get("/{id}/ledger", cfg.LedgerHandler.AccountLedger)
			r.With(viewer).Get("/{id}/events", cfg.AccountHandler.Events)

			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Post("/", cfg.AccountHandler.Create)
				r.Patch("/{id}", cfg.AccountHandler.Update)
				r.Post("/{id}/activate", cfg.AccountHandler.Activate)
				r.Post("/{id}/deactivate", cfg.AccountHandler.Deactivate)
			})
		})

		// Journal
		r.Route("/journal", func(r chi.Router) {
			r.With(viewer).Get("/groups", cfg.JournalHandler.List)
			r.With(viewer).Get("/groups/{id}", cfg.JournalHandler.Get)
			r.With(accountant).Post("/groups", cfg.JournalHandler.Submit)
			r.With(accountant).Post("/entries/{id}/comment", cfg.JournalHandler.Comment)
			r.With(manager).Post("/groups/{id}/approve", cfg.JournalHandler.Approve)
			r.With(manager).Post("/groups/{id}/reject", cfg.JournalHandler.Reject)
		})

		r.Group(func(r chi.Router) {
			r.Use(viewer)

			// Statements
			r.Route("/statements", func(r chi.Router) {
				r.Get("/", cfg.StatementHandler.Statement)
				r.Get("/trial-balance", cfg.StatementHandler.TrialBalance)
				r.Get("/income", cfg.StatementHandler.IncomeStatement)
				r.Get("/balance-sheet", cfg.StatementHandler.BalanceSheet)
				r.Get("/retained-earnings", cfg.StatementHandler.RetainedEarnings)
				r.Post("/periods", cfg.StatementHandler.Periods)
			})

			// Ratios
			r.Get("/ratios", cfg.RatioHandler.Ratios)
			r.Get("/ratios/thresholds", cfg.RatioHandler.Thresholds)
			r.Get("/dashboard", cfg.RatioHandler.Dashboard)

			r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
		})
	})

	return r
}
