package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/glpi-gateway/internal/api/http"
	"github.com/spec-kit/glpi-gateway/internal/api/http/handlers"
	"github.com/spec-kit/glpi-gateway/internal/auth"
	"github.com/spec-kit/glpi-gateway/internal/config"
	"github.com/spec-kit/glpi-gateway/internal/domain"
	"github.com/spec-kit/glpi-gateway/internal/events"
	"github.com/spec-kit/glpi-gateway/internal/glpi"
	"github.com/spec-kit/glpi-gateway/internal/observability"
	"github.com/spec-kit/glpi-gateway/internal/persistence"
	"github.com/spec-kit/glpi-gateway/internal/repository"
	"github.com/spec-kit/glpi-gateway/internal/service"
	"github.com/spec-kit/glpi-gateway/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	tables, err := domain.LoadEnumTables(cfg.Enums.MappingFile)
	if err != nil {
		logger.Fatal("failed to load enum tables", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	glpiClient := glpi.NewClient(cfg.GLPI, logger)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	ticketService := service.NewTicketService(service.TicketDependencies{
		API:        glpiClient,
		Tables:     tables,
		Recent:     repository.NewRecentTicketStore(redis.Client, cfg.App.RecentTicketTTL()),
		Journal:    repository.NewSubmissionJournal(pg.PoolHandle()),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokenManager)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, ticketService, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(tokenManager, cfg.Auth.GatewayAPIKey),
		Options:        handlers.NewOptionsHandler(ticketService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
