package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coursehq/batchboard/internal/config"
	"github.com/coursehq/batchboard/internal/handler"
	"github.com/coursehq/batchboard/internal/infra/postgresql"
	"github.com/coursehq/batchboard/internal/infra/postgresql/migrations"
	infraredis "github.com/coursehq/batchboard/internal/infra/redis"
	"github.com/coursehq/batchboard/internal/observability"
	"github.com/coursehq/batchboard/internal/provider"
	"github.com/coursehq/batchboard/internal/queue"
	"github.com/coursehq/batchboard/internal/repository"
	"github.com/coursehq/batchboard/internal/service"
	"github.com/coursehq/batchboard/internal/transport"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	rateLimiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.DispatchRatePerSec)
	if err != nil {
		logger.Fatal("rate limiter initialization failed", zap.Error(err))
	}

	broker, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("rabbitmq initialization failed", zap.Error(err))
	}
	defer broker.Close()

	publisher := queue.NewRabbitMQPublisher(broker)
	consumer := queue.NewRabbitMQConsumer(broker, cfg.WorkerConcurrency, logger)

	batchRepo := repository.NewGormBatchRepo(db)
	webhookRepo := repository.NewGormWebhookConfigRepo(db)
	notificationRepo := repository.NewGormNotificationRepo(db)
	profileRepo := repository.NewGormProfileRepo(db)

	sender := provider.NewWebhookSender(time.Duration(cfg.WebhookTimeoutMS) * time.Millisecond)

	metrics := observability.NewMetrics()

	batchService := service.NewBatchService(batchRepo, publisher, logger)
	batchService.SetMetrics(metrics)
	webhookService := service.NewWebhookService(webhookRepo, publisher, logger)
	notificationService := service.NewNotificationService(notificationRepo)
	userService := service.NewUserService(profileRepo, logger)

	dispatchService := service.NewDispatchService(
		batchRepo,
		webhookRepo,
		notificationRepo,
		profileRepo,
		consumer,
		sender,
		rateLimiter,
		cfg.WorkerConcurrency,
		cfg.RetryAttempts,
		time.Duration(cfg.RetryDelayMillis)*time.Millisecond,
		logger,
	)
	dispatchService.SetMetrics(metrics)

	app := fiber.New(fiber.Config{
		AppName:      "batchboard",
		ErrorHandler: transport.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(metrics.HTTPMiddleware())

	handler.RegisterHealthRoutes(app, sqlDB, rdb)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	v1 := app.Group("/v1", handler.AuthMiddleware(cfg.JWTSecret, profileRepo))
	if err := handler.RegisterBatchRoutes(v1, batchService); err != nil {
		logger.Fatal("batch route registration failed", zap.Error(err))
	}
	if err := handler.RegisterWebhookRoutes(v1, webhookService); err != nil {
		logger.Fatal("webhook route registration failed", zap.Error(err))
	}
	if err := handler.RegisterNotificationRoutes(v1, notificationService); err != nil {
		logger.Fatal("notification route registration failed", zap.Error(err))
	}
	if err := handler.RegisterUserRoutes(v1, userService); err != nil {
		logger.Fatal("user route registration failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, groupCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("batchboard api started", zap.Int("port", cfg.APIPort))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
			return fmt.Errorf("api server stopped: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return dispatchService.Start(groupCtx)
	})

	g.Go(func() error {
		<-groupCtx.Done()

		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Error("api shutdown failed", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Fatal("batchboard exited with error", zap.Error(err))
	}

	logger.Info("batchboard stopped")
}
