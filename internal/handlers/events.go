package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/appsheet"
)

// RemoteEvents fetches the joined event list from the remote table service.
type RemoteEvents interface {
	FetchEnrichedEvents(ctx context.Context) ([]appsheet.Event, map[string]appsheet.TeamRef, error)
}

// EventsHandler serves the enriched event list
type EventsHandler struct {
	Remote RemoteEvents
	Logger *zap.Logger
}

func NewEventsHandler(remote RemoteEvents, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		Remote: remote,
		Logger: logger,
	}
}

// Handle processes GET /events
func (h *EventsHandler) Handle(c *fiber.Ctx) error {
	events, teamMap, err := h.Remote.FetchEnrichedEvents(c.Context())
	if err != nil {
		return respondError(c, h.Logger, err)
	}

	return c.JSON(fiber.Map{
		"events":  events,
		"teamMap": teamMap,
	})
}
