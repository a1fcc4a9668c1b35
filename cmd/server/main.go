package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/ledgerlogic/internal/adapter/http"
	"github.com/iho/ledgerlogic/internal/adapter/http/handler"
	"github.com/iho/ledgerlogic/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/ledgerlogic/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/ledgerlogic/internal/adapter/repository/redis"
	"github.com/iho/ledgerlogic/internal/infrastructure/auth"
	"github.com/iho/ledgerlogic/internal/infrastructure/config"
	"github.com/iho/ledgerlogic/internal/infrastructure/eventpublisher"
	"github.com/iho/ledgerlogic/internal/infrastructure/logger"
	"github.com/iho/ledgerlogic/internal/infrastructure/metrics"
	"github.com/iho/ledgerlogic/internal/infrastructure/postgres"
	"github.com/iho/ledgerlogic/internal/infrastructure/redis"
	"github.com/iho/ledgerlogic/internal/usecase"
)

const rateLimitIdle = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zlog.Logger = log
	zerolog.DefaultContextLogger = &log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	thresholds, err := cfg.Thresholds()
	if err != nil {
		return fmt.Errorf("invalid ratio thresholds: %w", err)
	}

	if cfg.AutoMigrate {
		if err := migrate(cfg, log); err != nil {
			return err
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:       cfg.DatabaseURL,
		MaxConns:          cfg.DatabaseMaxConns,
		MinConns:          cfg.DatabaseMinConns,
		ConnectTimeout:    cfg.DatabaseTimeout,
		HealthCheckPeriod: time.Minute,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClientWithConfig(ctx, redis.ClientConfig{
		URL:          cfg.RedisURL,
		PoolSize:     cfg.RedisPoolSize,
		DialTimeout:  cfg.RedisDialTimeout,
		ReadTimeout:  cfg.RedisReadTimeout,
		WriteTimeout: cfg.RedisWriteTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	workers, err := ants.NewPool(cfg.StatementWorkers)
	if err != nil {
		return fmt.Errorf("create statement worker pool: %w", err)
	}
	defer workers.Release()

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()
	statementCache := redisRepo.NewStatementCache(redisClient, cfg.StatementCacheTTL)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, journalRepo, outboxRepo, auditRepo, statementCache, idGen, m)
	journalUC := usecase.NewJournalUseCase(txManager, accountRepo, journalRepo, outboxRepo, auditRepo, statementCache, retrier, idGen, m)
	ledgerUC := usecase.NewLedgerUseCase(accountRepo, journalRepo)
	statementUC := usecase.NewStatementUseCase(accountRepo, journalRepo, statementCache, workers, m)
	ratioUC := usecase.NewRatioUseCase(statementUC, thresholds, m)

	var verifier middleware.TokenVerifier
	if cfg.AuthEnabled {
		verifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	go rateLimiter.Run(ctx, time.Minute, rateLimitIdle)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC),
		JournalHandler:   handler.NewJournalHandler(journalUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		StatementHandler: handler.NewStatementHandler(statementUC),
		RatioHandler:     handler.NewRatioHandler(ratioUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		Authenticator:    middleware.NewAuthenticator(verifier, cfg.AuthEnabled, m),
		RateLimiter:      rateLimiter,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Metrics:          m,
		MetricsHandler:   promhttp.Handler(),
		Logger:           log,
	})

	// Outbox relay
	publisher, closePublisher := newPublisher(cfg, log)
	defer func() {
		if err := closePublisher(); err != nil {
			log.Warn().Err(err).Msg("failed to close event publisher")
		}
	}()

	relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Logger:     log,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	})
	go func() {
		if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	server := &http.Server{
		Addr:         serverAddr(cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Bool("auth", cfg.AuthEnabled).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func validateConfig(cfg *config.Config) error {
	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		return errors.New("AUTH_ENABLED requires JWT_SECRET")
	}
	if cfg.StatementWorkers <= 0 {
		return errors.New("STATEMENT_WORKERS must be positive")
	}
	return nil
}

func migrate(cfg *config.Config, log zerolog.Logger) error {
	migrator, err := postgres.NewMigrator(cfg.MigrationsPath, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Up()
}

// newPublisher picks Kafka when brokers are configured and falls back to logging.
func newPublisher(cfg *config.Config, log zerolog.Logger) (eventpublisher.Publisher, func() error) {
	if len(cfg.KafkaBrokers) == 0 {
		return eventpublisher.NewLogPublisher(log), func() error { return nil }
	}

	kafka := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	return kafka, kafka.Close
}

func serverAddr(port string) string {
	return ":" + port
}
