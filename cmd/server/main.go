package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/amotify/amotify/internal/adapter/http"
	"github.com/amotify/amotify/internal/adapter/http/handler"
	postgresRepo "github.com/amotify/amotify/internal/adapter/repository/postgres"
	redisRepo "github.com/amotify/amotify/internal/adapter/repository/redis"
	"github.com/amotify/amotify/internal/infrastructure/auth"
	"github.com/amotify/amotify/internal/infrastructure/config"
	"github.com/amotify/amotify/internal/infrastructure/eventpublisher"
	"github.com/amotify/amotify/internal/infrastructure/logger"
	"github.com/amotify/amotify/internal/infrastructure/logging"
	"github.com/amotify/amotify/internal/infrastructure/metrics"
	"github.com/amotify/amotify/internal/infrastructure/postgres"
	"github.com/amotify/amotify/internal/infrastructure/redis"
	"github.com/amotify/amotify/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns, cfg.DatabaseTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("migrations applied")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	appMetrics := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize use cases
	userUC := usecase.NewUserUseCase(userRepo, idGen)
	expenseUC := usecase.NewExpenseUseCase(txManager, expenseRepo, outboxRepo, cache, idGen, appMetrics)
	splitUC := usecase.NewSplitUseCase(txManager, expenseRepo, outboxRepo, cache, idGen, appMetrics)
	settlementUC := usecase.NewSettlementUseCase(txManager, expenseRepo, outboxRepo, cache, idGen, appMetrics)
	dashboardUC := usecase.NewDashboardUseCase(expenseRepo, cache, appMetrics)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userUC, jwtManager)
	expenseHandler := handler.NewExpenseHandler(expenseUC)
	splitHandler := handler.NewSplitHandler(splitUC)
	settlementHandler := handler.NewSettlementHandler(settlementUC)
	dashboardHandler := handler.NewDashboardHandler(dashboardUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Start the outbox publisher in the background
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	slogLogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	var publisher eventpublisher.Publisher
	if cfg.RabbitURL != "" {
		rabbitPublisher, err := eventpublisher.NewRabbitMQPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}
		defer rabbitPublisher.Close()
		publisher = rabbitPublisher
		log.Info().Str("exchange", cfg.RabbitExchange).Msg("connected to rabbitmq")
	} else {
		publisher = eventpublisher.NewLogPublisher(slogLogger.Logger)
		log.Info().Msg("rabbitmq not configured, logging outbox events")
	}

	outboxPublisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Logger:     slogLogger.Logger,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := outboxPublisher.Start(publisherCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("outbox publisher stopped")
		}
	}()

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:       authHandler,
		ExpenseHandler:    expenseHandler,
		SplitHandler:      splitHandler,
		SettlementHandler: settlementHandler,
		DashboardHandler:  dashboardHandler,
		HealthHandler:     healthHandler,
		JWTManager:        jwtManager,
		IdempotencyStore:  idempotencyStore,
		Logger:            appLogger,
		RateLimit:         cfg.RateLimit,
		RateBurst:         cfg.RateBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
