package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/models"
)

// StatusStore drains the refresh-status singleton.
type StatusStore interface {
	DrainStatus(ctx context.Context) (models.RefreshStatus, error)
}

// StatusHandler serves the poll endpoint
type StatusHandler struct {
	Status StatusStore
	Logger *zap.Logger
}

func NewStatusHandler(status StatusStore, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		Status: status,
		Logger: logger,
	}
}

// Handle processes GET/POST /refresh-status. A pending update is returned
// exactly once; the drain clears the singleton in the same store operation,
// so a second poll sees {kind: none}.
func (h *StatusHandler) Handle(c *fiber.Ctx) error {
	status, err := h.Status.DrainStatus(c.Context())
	if err != nil {
		return respondError(c, h.Logger, err)
	}

	if status.Kind == models.RefreshUpdate {
		h.Logger.Info("Refresh status drained",
			zap.Stringp("row_id", status.RowID),
		)
	}

	return c.JSON(status)
}
