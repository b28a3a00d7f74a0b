package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/facilityhub/helpdesk/internal/api/http"
	"github.com/facilityhub/helpdesk/internal/api/http/handlers"
	"github.com/facilityhub/helpdesk/internal/auth"
	"github.com/facilityhub/helpdesk/internal/cache"
	"github.com/facilityhub/helpdesk/internal/config"
	"github.com/facilityhub/helpdesk/internal/events"
	"github.com/facilityhub/helpdesk/internal/observability"
	"github.com/facilityhub/helpdesk/internal/persistence"
	"github.com/facilityhub/helpdesk/internal/prf"
	"github.com/facilityhub/helpdesk/internal/repository"
	"github.com/facilityhub/helpdesk/internal/service"
	"github.com/facilityhub/helpdesk/internal/worker"
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
	clientRepo := repository.NewClientRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	buildingRepo := repository.NewBuildingRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	noteRepo := repository.NewNoteRepository(pool)
	requestRepo := repository.NewMaterialRequestRepository(pool)
	breakageRepo := repository.NewBreakageRepository(pool)
	sequenceRepo := repository.NewSequenceRepository(pool)

	taxonomyCache := cache.NewTaxonomyCache(redis.Client, cfg.Redis.TaxonomyTTL(), logger)
	sequences := cache.NewSequenceAllocator(redis.Client, sequenceRepo, logger)

	dispatcher := events.NewInMemoryDispatcher(logger)
	prfClient := prf.NewClient(cfg.PRF, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		ClientRepo: clientRepo,
		StaffRepo:  staffRepo,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		BuildingRepo: buildingRepo,
		CategoryRepo: categoryRepo,
		NoteRepo:     noteRepo,
		Sequences:    sequences,
		Dispatcher:   dispatcher,
	})
	taxonomyService := service.NewTaxonomyService(service.TaxonomyDependencies{
		BuildingRepo: buildingRepo,
		CategoryRepo: categoryRepo,
		StaffRepo:    staffRepo,
		Cache:        taxonomyCache,
	})
	materialRequestService := service.NewMaterialRequestService(service.MaterialRequestDependencies{
		RequestRepo: requestRepo,
		TicketRepo:  ticketRepo,
		PRF:         prfClient,
		Dispatcher:  dispatcher,
	})
	breakageService := service.NewBreakageService(breakageRepo, ticketRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), clientRepo, staffRepo, buildingRepo, categoryRepo)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:           handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:             handlers.NewAuthHandler(authService),
		Tickets:          handlers.NewTicketsHandler(ticketService),
		StaffTickets:     handlers.NewStaffTicketsHandler(ticketService),
		Taxonomy:         handlers.NewTaxonomyHandler(taxonomyService),
		MaterialRequests: handlers.NewMaterialRequestsHandler(materialRequestService, breakageService),
		AuthMiddleware:   authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("service started", zap.String("addr", cfg.App.Addr()), zap.String("version", cfg.App.Version))

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
