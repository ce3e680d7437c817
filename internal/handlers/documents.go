package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/normalize"
)

// DocumentStore is the slice of the event store the document endpoints need.
type DocumentStore interface {
	UpsertEvent(ctx context.Context, id string, fields map[string]any) error
	DeleteEvent(ctx context.Context, id string) error
	DeleteEventsByParentJob(ctx context.Context, parentJobID string) (int64, error)
	UpsertTeam(ctx context.Context, id string, fields map[string]any) error
}

// Document actions.
const (
	actionUpsert      = "upsert"
	actionDelete      = "delete"
	actionDeleteByJob = "deleteByJob"
)

// DocumentsHandler maintains event and team documents in the event store
type DocumentsHandler struct {
	Store  DocumentStore
	Logger *zap.Logger
}

func NewDocumentsHandler(store DocumentStore, logger *zap.Logger) *DocumentsHandler {
	return &DocumentsHandler{
		Store:  store,
		Logger: logger,
	}
}

// UpdateEvent processes POST /event-doc. The action field selects upsert
// (default), delete, or deleteByJob; only the bulk variant works without an
// eventId.
func (h *DocumentsHandler) UpdateEvent(c *fiber.Ctx) error {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON body",
		})
	}

	action := normalize.String(body["action"], actionUpsert)
	eventID := normalize.String(body["eventId"], "")

	switch action {
	case actionDeleteByJob:
		jobID := normalize.String(body["jobId"], "")
		if jobID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing jobId",
			})
		}
		deleted, err := h.Store.DeleteEventsByParentJob(c.Context(), jobID)
		if err != nil {
			return respondError(c, h.Logger, err)
		}
		return c.JSON(fiber.Map{
			"message": "events deleted",
			"deleted": deleted,
		})

	case actionDelete:
		if eventID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing eventId",
			})
		}
		if err := h.Store.DeleteEvent(c.Context(), eventID); err != nil {
			return respondError(c, h.Logger, err)
		}
		return c.JSON(fiber.Map{
			"message": "event deleted",
		})

	case actionUpsert:
		if eventID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing eventId",
			})
		}
		fields := make(map[string]any, len(body))
		for key, value := range body {
			if key == "eventId" || key == "action" {
				continue
			}
			fields[key] = value
		}
		if err := h.Store.UpsertEvent(c.Context(), eventID, fields); err != nil {
			return respondError(c, h.Logger, err)
		}
		return c.JSON(fiber.Map{
			"message": "event updated",
		})

	default:
		h.Logger.Warn("Unknown event document action",
			zap.String("action", action),
		)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown action: " + action,
		})
	}
}

// UpdateTeam processes POST /team-doc
func (h *DocumentsHandler) UpdateTeam(c *fiber.Ctx) error {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON body",
		})
	}

	teamID := normalize.String(body["teamId"], "")
	if teamID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing teamId",
		})
	}

	fields := make(map[string]any, len(body))
	for key, value := range body {
		if key == "teamId" {
			continue
		}
		fields[key] = value
	}

	if err := h.Store.UpsertTeam(c.Context(), teamID, fields); err != nil {
		return respondError(c, h.Logger, err)
	}

	return c.JSON(fiber.Map{
		"message": "team updated",
	})
}
