package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/glpi-gateway/internal/api/http/handlers"
	"github.com/spec-kit/glpi-gateway/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Options        *handlers.OptionsHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Welcome)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/auth/token", cfg.Auth.IssueToken)

	v1 := app.Group("/v1", cfg.AuthMiddleware.Handle)
	v1.Get("/connection", cfg.Health.Connection)
	v1.Get("/options/statuses", cfg.Options.Statuses)
	v1.Get("/options/request-sources", cfg.Options.RequestSources)

	v1.Post("/tickets", cfg.Tickets.Create)
	// recent and by-name registered before :id so fiber does not swallow them
	v1.Get("/tickets/recent", cfg.Tickets.Recent)
	v1.Get("/tickets/by-name/:name", cfg.Tickets.GetByName)
	v1.Get("/tickets/:id", cfg.Tickets.Get)

	v1.Get("/submissions", cfg.Tickets.Submissions)
}
