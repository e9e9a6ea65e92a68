package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/ceobank/backend/internal/adapter/http"
	"github.com/ceobank/backend/internal/adapter/http/handler"
	postgresRepo "github.com/ceobank/backend/internal/adapter/repository/postgres"
	redisRepo "github.com/ceobank/backend/internal/adapter/repository/redis"
	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/infrastructure/auth"
	"github.com/ceobank/backend/internal/infrastructure/config"
	"github.com/ceobank/backend/internal/infrastructure/eventpublisher"
	"github.com/ceobank/backend/internal/infrastructure/fanout"
	"github.com/ceobank/backend/internal/infrastructure/logger"
	"github.com/ceobank/backend/internal/infrastructure/metrics"
	"github.com/ceobank/backend/internal/infrastructure/postgres"
	"github.com/ceobank/backend/internal/infrastructure/redis"
	"github.com/ceobank/backend/internal/scheduler"
	"github.com/ceobank/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	assetRepo := postgresRepo.NewAssetRepository(pool)
	holdingRepo := postgresRepo.NewHoldingRepository(pool)
	shopRepo := postgresRepo.NewShopRepository(pool)
	auctionRepo := postgresRepo.NewAuctionRepository(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	insuranceRepo := postgresRepo.NewInsuranceRepository(pool)
	notificationRepo := postgresRepo.NewNotificationRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Metrics and event fan-out
	appMetrics := metrics.New()
	hub := fanout.NewHub(appLogger)
	hub.OnDrop(appMetrics.EventsDropped.Inc)

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(
		txManager, accountRepo, entryRepo, ledgerRepo, outboxRepo,
		auditRepo, notificationRepo, idGen, retrier, hub,
	)
	reversalUC := usecase.NewReversalUseCase(
		txManager, accountRepo, entryRepo, shopRepo, auditRepo, idGen, ledgerUC,
	)
	accountUC := usecase.NewAccountUseCase(
		txManager, accountRepo, auditRepo, idGen, ledgerUC,
		cfg.InitialBalance, cfg.InitialLoyalty,
	)
	shopUC := usecase.NewShopUseCase(
		txManager, accountRepo, shopRepo, idGen, retrier, cache, ledgerUC, hub,
	)
	exchangeUC := usecase.NewExchangeUseCase(
		txManager, accountRepo, assetRepo, holdingRepo, outboxRepo,
		idGen, retrier, cache, ledgerUC, hub, nil,
	)
	depositUC := usecase.NewDepositUseCase(txManager, accountRepo, idGen, ledgerUC, cfg.DepositRate)
	loanUC := usecase.NewLoanUseCase(
		txManager, accountRepo, loanRepo, idGen, ledgerUC,
		cfg.LoanMaxAmount, cfg.LoanRate,
	)
	insuranceUC := usecase.NewInsuranceUseCase(txManager, accountRepo, insuranceRepo, ledgerUC)
	auctionUC := usecase.NewAuctionUseCase(
		txManager, accountRepo, auctionRepo, outboxRepo, auditRepo, idGen, ledgerUC, hub,
	)
	notificationUC := usecase.NewNotificationUseCase(notificationRepo)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:         handler.NewAuthHandler(accountUC, jwtManager, appMetrics),
		AccountHandler:      handler.NewAccountHandler(accountUC),
		LedgerHandler:       handler.NewLedgerHandler(ledgerUC, reversalUC, appMetrics),
		ShopHandler:         handler.NewShopHandler(shopUC, appMetrics),
		ExchangeHandler:     handler.NewExchangeHandler(exchangeUC, appMetrics),
		DepositHandler:      handler.NewDepositHandler(depositUC, cfg.DepositTerm),
		LoanHandler:         handler.NewLoanHandler(loanUC, appMetrics),
		InsuranceHandler:    handler.NewInsuranceHandler(insuranceUC),
		AuctionHandler:      handler.NewAuctionHandler(auctionUC, appMetrics),
		NotificationHandler: handler.NewNotificationHandler(notificationUC),
		EventsHandler:       handler.NewEventsHandler(hub, appMetrics),
		AdminHandler:        handler.NewAdminHandler(accountUC, ledgerUC, exchangeUC, depositUC, appMetrics),
		HealthHandler:       handler.NewHealthHandler(pool, redisClient),

		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		Metrics:          appMetrics,
		Logger:           appLogger,
		RateLimit:        cfg.RateLimitPerSecond,
		RateBurst:        cfg.RateLimitBurst,
	})

	// Background jobs: market ticks and deposit maturation
	jobs := scheduler.New(appLogger,
		scheduler.Job{
			Name:     "market-tick",
			Interval: cfg.MarketTickInterval,
			Run: func(ctx context.Context) error {
				_, err := exchangeUC.RunMarketTick(ctx)
				if err == nil {
					appMetrics.MarketTicks.Inc()
				}
				return err
			},
		},
		scheduler.Job{
			Name:     "deposit-maturation",
			Interval: cfg.DepositTickInterval,
			Run: func(ctx context.Context) error {
				matured, err := depositUC.RunMaturationTick(ctx)
				appMetrics.DepositsMatured.Add(float64(len(matured)))
				return err
			},
		},
	)

	// Outbox relay: durable events flow to the in-process hub
	busPublisher := eventpublisher.NewBusPublisher(hub)
	relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher: eventpublisher.PublisherFunc(func(ctx context.Context, event *domain.OutboxEvent) error {
			if err := busPublisher.Publish(ctx, event); err != nil {
				return err
			}
			appMetrics.OutboxPublished.Inc()
			return nil
		}),
		Logger:    slog.Default(),
		BatchSize: cfg.OutboxBatchSize,
		Interval:  cfg.OutboxInterval,
	})

	backgroundCtx, stopBackground := context.WithCancel(ctx)
	jobs.Start(backgroundCtx)
	go func() {
		if err := relay.Start(backgroundCtx); err != nil && backgroundCtx.Err() == nil {
			appLogger.Error().Err(err).Msg("outbox relay stopped")
		}
	}()

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
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	stopBackground()
	jobs.Wait()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
