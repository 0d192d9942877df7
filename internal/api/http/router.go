package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/supportdesk/reactivation-service/internal/api/http/handlers"
	"github.com/supportdesk/reactivation-service/internal/auth"
	"github.com/supportdesk/reactivation-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Reactivation   *handlers.ReactivationHandler
	IdentityToken  *handlers.IdentityTokenHandler
	Webhook        *handlers.WebhookHandler
	WebhookPath    string
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Post("/auth/token", cfg.Auth.Token)

	if cfg.Webhook != nil && cfg.WebhookPath != "" {
		app.Post(cfg.WebhookPath, cfg.Webhook.Receive)
	}

	leader := app.Group("/api/v1/leader", cfg.AuthMiddleware.Handle)
	leader.Post("/user/reactivate-and-notify", auth.RequireScope(auth.ScopeReactivate), cfg.Reactivation.ReactivateAndNotify)
	leader.Get("/user/:id/reactivations", auth.RequireScope(auth.ScopeJournalRead), cfg.Reactivation.History)
	leader.Post("/token", auth.RequireScope(auth.ScopeIdentityToken), cfg.IdentityToken.Update)
}
