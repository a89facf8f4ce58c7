package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zephyrpay/remit/internal/application/usecase"
	"github.com/zephyrpay/remit/internal/domain/service"
	"github.com/zephyrpay/remit/internal/infrastructure/adapters"
	"github.com/zephyrpay/remit/internal/infrastructure/config"
	"github.com/zephyrpay/remit/internal/infrastructure/messaging"
	infraPG "github.com/zephyrpay/remit/internal/infrastructure/postgres"
	"github.com/zephyrpay/remit/internal/infrastructure/quote"
	"github.com/zephyrpay/remit/internal/infrastructure/worker"
	"github.com/zephyrpay/remit/internal/presentation/rest"
	kafkapkg "github.com/zephyrpay/remit/pkg/kafka"
	"github.com/zephyrpay/remit/pkg/observability"
	pgpkg "github.com/zephyrpay/remit/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	cfg.Validate()

	// Initialize logger.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "remit",
	})
	slog.SetDefault(logger)

	logger.Info("starting remit", "http_port", cfg.HTTPPort)

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: "remit",
	})
	if err != nil {
		logger.Warn("failed to initialize metrics, continuing without them", "error", err)
	} else {
		defer meterProvider.Shutdown(context.Background())
	}

	// Initialize database.
	pool, err := pgpkg.NewPool(ctx, pgpkg.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations.
	dsn := pgpkg.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}.DSN()
	if err := pgpkg.RunMigrations(dsn, cfg.DB.MigrationsDir); err != nil {
		logger.Warn("migration warning", "error", err)
	}

	// Initialize Kafka producer.
	producer := kafkapkg.NewProducer(kafkapkg.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer producer.Close()

	// Initialize Redis for the quote cache.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Wire dependencies (DI via constructors).
	repo := infraPG.NewRemittanceRepo(pool)
	publisher := messaging.NewKafkaEventPublisher(producer, logger)
	validator := service.NewValidator()
	transformer := service.NewTransformer()

	stripeAdapter := adapters.NewStripeAdapter(logger)
	wiseAdapter := adapters.NewWiseAdapter(logger)
	registry := adapters.NewRegistry()
	registry.RegisterPayment("stripe", stripeAdapter)
	// Stripe-funded remittances disburse over the wise rail.
	registry.RegisterPayout("stripe", wiseAdapter)
	registry.RegisterPayout("wise", wiseAdapter)

	quotes := quote.NewCachedProvider(quote.NewStaticProvider(), redisClient, logger)
	queue := worker.NewQueue(cfg.Worker.QueueDepth)

	// Use cases.
	payUC := usecase.NewPayRemittance(repo, registry, transformer, validator, queue, publisher, logger)
	payoutUC := usecase.NewInitiatePayout(repo, registry, transformer, publisher, logger)
	syncUC := usecase.NewSyncRemittance(repo, registry, queue, publisher, logger)

	handler := rest.NewRemittanceHandler(
		usecase.NewCreateRemittance(repo, quotes, queue, publisher, validator, logger),
		payUC,
		usecase.NewRetrieveRemittance(repo, syncUC, logger),
		usecase.NewUpdateRemittance(repo, validator),
		usecase.NewCancelRemittance(repo, registry, validator, publisher, logger),
		usecase.NewListRemittances(repo),
		usecase.NewQuoteRemittance(quotes),
		usecase.NewProcessWebhook(repo, adapters.NewWebhookTranslator(), queue, publisher, logger),
		syncUC,
		usecase.NewManualUpdate(repo, publisher, logger),
		logger,
	)

	// Background workers for saga continuations.
	workers := worker.NewPool(queue, payUC, payoutUC, cfg.Worker.Concurrency, logger)
	go workers.Run(ctx)

	// HTTP server.
	healthHandler := rest.NewHealthHandler(pool, redisClient, logger)
	router := rest.NewRouter(handler, healthHandler, metricsHandler)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("remit stopped")
}
