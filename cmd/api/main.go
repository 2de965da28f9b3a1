package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/encenape/event-service/internal/api/http"
	"github.com/encenape/event-service/internal/api/http/handlers"
	"github.com/encenape/event-service/internal/auth"
	"github.com/encenape/event-service/internal/cache"
	"github.com/encenape/event-service/internal/clock"
	"github.com/encenape/event-service/internal/config"
	"github.com/encenape/event-service/internal/events"
	"github.com/encenape/event-service/internal/notify"
	"github.com/encenape/event-service/internal/observability"
	"github.com/encenape/event-service/internal/payment"
	"github.com/encenape/event-service/internal/persistence"
	"github.com/encenape/event-service/internal/qr"
	"github.com/encenape/event-service/internal/repository"
	"github.com/encenape/event-service/internal/service"
	"github.com/encenape/event-service/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	venueRepo := repository.NewVenueRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	faqRepo := repository.NewFAQRepository(pool)

	clk := clock.NewSystem()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	eventCache := cache.NewEventCache(redis.Client)
	mailer := notify.NewSMTPMailer(cfg.Mail)
	gateway := payment.NewMockGateway(cfg.Payment, logger)
	qrGen := qr.NewGenerator(cfg.Frontend.BaseURL)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	notificationService := service.NewNotificationService(mailer, cfg.Frontend, cfg.Mail, logger)
	notificationService.Register(dispatcher)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		ResetRepo:  resetRepo,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Clock:      clk,
		Config:     cfg.Auth,
		Logger:     logger,
	})
	eventService := service.NewEventService(eventRepo, venueRepo, eventCache, clk, logger)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		EventRepo:  eventRepo,
		Gateway:    gateway,
		QRGen:      qrGen,
		Dispatcher: dispatcher,
		Cache:      eventCache,
		Clock:      clk,
		Logger:     logger,
	})
	messageService := service.NewMessageService(messageRepo, dispatcher, clk)
	faqService := service.NewFAQService(faqRepo)
	userService := service.NewUserService(userRepo)

	sweeper := worker.NewTokenSweeper(resetRepo, cfg.Worker.TokenSweepInterval(), clk, logger)
	go sweeper.Run(ctx)

	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Events:         handlers.NewEventsHandler(eventService, clk),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Messages:       handlers.NewMessagesHandler(messageService),
		FAQ:            handlers.NewFAQHandler(faqService),
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
