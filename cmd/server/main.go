package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	httpAdapter "github.com/merkato/fincore/internal/adapter/http"
	"github.com/merkato/fincore/internal/adapter/http/handler"
	"github.com/merkato/fincore/internal/adapter/http/middleware"
	postgresRepo "github.com/merkato/fincore/internal/adapter/repository/postgres"
	redisRepo "github.com/merkato/fincore/internal/adapter/repository/redis"
	"github.com/merkato/fincore/internal/domain"
	"github.com/merkato/fincore/internal/infrastructure/auth"
	"github.com/merkato/fincore/internal/infrastructure/config"
	"github.com/merkato/fincore/internal/infrastructure/logger"
	"github.com/merkato/fincore/internal/infrastructure/metrics"
	"github.com/merkato/fincore/internal/infrastructure/postgres"
	"github.com/merkato/fincore/internal/infrastructure/redis"
	"github.com/merkato/fincore/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	tolerance, err := decimal.NewFromString(cfg.AmountMatchTolerance)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid amount match tolerance")
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize metrics
	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	locker := postgresRepo.NewAdvisoryLocker()
	entryRepo := postgresRepo.NewCapitalEntryRepository(pool)
	revRepo := postgresRepo.NewRevenueEntryRepository(pool)
	sumRepo := postgresRepo.NewRevenueSummaryRepository(pool)
	wdRepo := postgresRepo.NewWithdrawalRepository(pool)
	rvRepo := postgresRepo.NewReinvestmentRepository(pool)
	expRepo := postgresRepo.NewExpenseRepository(pool)
	seqRepo := postgresRepo.NewSequenceRepository(pool)
	opRepo := postgresRepo.NewOperationRepository(pool)
	settingsRepo := postgresRepo.NewSettingsRepository(pool)
	grantStore := postgresRepo.NewGrantStore(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	// Exchange rate cache in front of the settings table
	rates := redisRepo.NewRateCache(redisClient, settingsRepo, cfg.RateCacheTTL, log)

	// Initialize use cases
	credentials := auth.NewCredentialManager(cfg.InternalCredentialSecret, cfg.InternalCredentialTTL)
	systemGuard := domain.NewSystemUserGuard(cfg.SystemUserID)
	gate := usecase.NewApprovalGate(grantStore, auditRepo, credentials, systemGuard, idGen, log, m)
	calc := usecase.NewImpactCalculator(rates, tolerance)
	seq := usecase.NewSequenceGenerator(txManager, locker, seqRepo)

	capitalLedger := usecase.NewCapitalLedger(
		txManager, locker, entryRepo, opRepo, settingsRepo,
		gate, calc, seq, idGen, retrier, log, m,
	)
	revenueEngine := usecase.NewRevenueEngine(
		txManager, locker, revRepo, sumRepo, wdRepo, rvRepo, expRepo,
		capitalLedger, gate, seq, idGen, retrier, log, m,
	)

	// Initialize handlers
	capitalHandler := handler.NewCapitalHandler(capitalLedger)
	revenueHandler := handler.NewRevenueHandler(revenueEngine)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CapitalHandler: capitalHandler,
		RevenueHandler: revenueHandler,
		HealthHandler:  healthHandler,
		Logging:        middleware.NewLoggingMiddleware(log),
		Metrics:        middleware.NewMetricsMiddleware(m),
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
