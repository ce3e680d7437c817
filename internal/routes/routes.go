package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Monticola-data/backend-kalendar/internal/handlers"
)

// Handlers groups the route handlers wired in main.
type Handlers struct {
	Webhook   *handlers.WebhookHandler
	Status    *handlers.StatusHandler
	Events    *handlers.EventsHandler
	Jobs      *handlers.JobsHandler
	Documents *handlers.DocumentsHandler
	Health    *handlers.HealthHandler
}

// SetupRoutes configures all application routes with dependencies. OPTIONS
// preflight is answered by the CORS middleware registered in main, so no
// handler deals with it.
func SetupRoutes(app *fiber.App, h *Handlers) {
	app.Get("/health", h.Health.HealthCheck)

	app.Post("/webhook", h.Webhook.Handle)

	app.Get("/refresh-status", h.Status.Handle)
	app.Post("/refresh-status", h.Status.Handle)

	app.Get("/events", h.Events.Handle)

	app.Post("/jobs", h.Jobs.Add)
	app.Post("/jobs/update", h.Jobs.Update)

	app.Post("/event-doc", h.Documents.UpdateEvent)
	app.Post("/team-doc", h.Documents.UpdateTeam)
}
