package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/pawn-ledger/internal/api/http"
	"github.com/spec-kit/pawn-ledger/internal/api/http/handlers"
	"github.com/spec-kit/pawn-ledger/internal/auth"
	"github.com/spec-kit/pawn-ledger/internal/config"
	"github.com/spec-kit/pawn-ledger/internal/events"
	"github.com/spec-kit/pawn-ledger/internal/observability"
	"github.com/spec-kit/pawn-ledger/internal/persistence"
	"github.com/spec-kit/pawn-ledger/internal/repository"
	"github.com/spec-kit/pawn-ledger/internal/service"
	"github.com/spec-kit/pawn-ledger/internal/worker"
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

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	alertLogRepo := repository.NewAlertLogRepository(pool)
	operatorRepo := repository.NewOperatorRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger).RegisterHandlers()
	outbox := persistence.NewAlertOutbox(redis, cfg.Alerts.QueueKey)

	customerService := service.NewCustomerService(customerRepo, ticketRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		PaymentRepo:  paymentRepo,
		CustomerRepo: customerRepo,
		Aggregate:    customerService,
		Dispatcher:   dispatcher,
	})
	overdueService := service.NewOverdueService(ticketRepo, logger)
	reportService := service.NewReportService(ticketRepo, paymentRepo)
	alertService := service.NewAlertService(cfg.Alerts, service.AlertDependencies{
		CustomerRepo: customerRepo,
		AlertLogRepo: alertLogRepo,
		Queue:        outbox,
		Dispatcher:   dispatcher,
	}, logger)
	authService := service.NewAuthService(cfg.Auth, operatorRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), operatorRepo)

	if created, err := authService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapUsername, cfg.Auth.BootstrapPassword); err != nil {
		logger.Warn("bootstrap admin setup failed", zap.Error(err))
	} else if created {
		logger.Info("bootstrap admin created", zap.String("username", cfg.Auth.BootstrapUsername))
	}

	alertWorker := worker.NewAlertWorker(outbox, cfg.Alerts, logger)
	go alertWorker.Run(ctx)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Customers:      handlers.NewCustomersHandler(customerService),
		Alerts:         handlers.NewAlertsHandler(overdueService, alertService, cfg.Alerts.OverdueThresholdMonths),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
