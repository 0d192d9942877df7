package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/supportdesk/reactivation-service/internal/api/http"
	"github.com/supportdesk/reactivation-service/internal/api/http/handlers"
	"github.com/supportdesk/reactivation-service/internal/auth"
	"github.com/supportdesk/reactivation-service/internal/cache"
	"github.com/supportdesk/reactivation-service/internal/clients/helpdesk"
	"github.com/supportdesk/reactivation-service/internal/clients/identity"
	"github.com/supportdesk/reactivation-service/internal/clients/telegram"
	"github.com/supportdesk/reactivation-service/internal/config"
	"github.com/supportdesk/reactivation-service/internal/events"
	"github.com/supportdesk/reactivation-service/internal/observability"
	"github.com/supportdesk/reactivation-service/internal/persistence"
	"github.com/supportdesk/reactivation-service/internal/repository"
	"github.com/supportdesk/reactivation-service/internal/service"
	"github.com/supportdesk/reactivation-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loc, err := cfg.Reactivation.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}
	roster, err := config.LoadRoster(cfg.Reactivation)
	if err != nil {
		logger.Fatal("failed to load agent roster", zap.Error(err))
	}
	if len(roster) == 0 {
		logger.Warn("agent roster is empty; replies will be sent without an agent")
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics("reactivation")
	dispatcher := events.NewInMemoryDispatcher()

	var publisher *events.NATSPublisher
	if cfg.NATS.URL != "" {
		publisher, err = events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, logger)
		if err != nil {
			logger.Fatal("failed to connect nats", zap.Error(err))
		}
		defer publisher.Close()
	}

	identityClient := identity.NewClient(cfg.Identity, cache.NewTokenStore(redis.Client), logger)
	helpdeskClient := helpdesk.NewClient(cfg.Helpdesk, logger)
	telegramClient := telegram.NewClient(cfg.Telegram, logger)

	authenticateIdentity(ctx, identityClient, cfg.Identity, logger)
	registerWebhook(ctx, telegramClient, cfg.Telegram, logger)

	auditService := service.NewAuditService(dispatcher, repository.NewReactivationRepository(pg.PoolHandle()), logger)
	worker.StartEventWorkers(dispatcher, auditService, publisher)

	scheduler := service.NewAgentScheduler(roster, loc)
	orchestrator := service.NewReactivationOrchestrator(service.OrchestratorDependencies{
		Reactivation: service.NewReactivationService(identityClient, cfg.Reactivation.OverrideUserIDs, logger),
		Dispatch:     service.NewDispatchService(helpdeskClient, scheduler, cfg.Helpdesk.ProfileCategory, logger),
		Chat:         telegramClient,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		AdminUserURL: cfg.Identity.AdminUserURL,
		Logger:       logger,
	})
	authService := service.NewAuthService(cfg.Auth)

	var journal handlers.JournalReader
	if pg.Enabled() {
		journal = auditService
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, healthChecks(pg, redis, publisher)...),
		Auth:           handlers.NewAuthHandler(authService),
		Reactivation:   handlers.NewReactivationHandler(orchestrator, journal),
		IdentityToken:  handlers.NewIdentityTokenHandler(identityClient),
		Webhook:        handlers.NewWebhookHandler(cfg.Telegram.WebhookSecret, cache.NewUpdateStore(redis.Client, cfg.Telegram.UpdateTTL()), logger),
		WebhookPath:    cfg.Telegram.WebhookPath,
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// authenticateIdentity logs in to the identity platform. Failures are
// logged only: an operator can still provide a token over the API.
func authenticateIdentity(ctx context.Context, client *identity.Client, cfg config.IdentityConfig, logger *zap.Logger) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Warn("identity admin credentials not set; waiting for a token via API")
		return
	}
	if err := client.Authenticate(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("identity authentication failed", zap.Error(err))
	}
}

func registerWebhook(ctx context.Context, client *telegram.Client, cfg config.TelegramConfig, logger *zap.Logger) {
	if cfg.BotToken == "" || cfg.WebhookURL == "" {
		logger.Warn("bot webhook not configured")
		return
	}
	webhookURL := cfg.WebhookURL + cfg.WebhookPath
	if err := client.SetWebhook(ctx, webhookURL, cfg.WebhookSecret); err != nil {
		logger.Error("set webhook failed", zap.Error(err))
		return
	}
	logger.Info("webhook registered", zap.String("url", webhookURL))
}

func healthChecks(pg *persistence.Postgres, redis *persistence.Redis, publisher *events.NATSPublisher) []handlers.DependencyCheck {
	return []handlers.DependencyCheck{
		{Name: "postgres", Disabled: !pg.Enabled(), Ping: pg.Ping},
		{Name: "redis", Ping: redis.Ping},
		{Name: "nats", Disabled: publisher == nil, Ping: publisher.Ping},
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
