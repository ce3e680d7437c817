package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/appsheet"
	"github.com/Monticola-data/backend-kalendar/internal/config"
	"github.com/Monticola-data/backend-kalendar/internal/normalize"
)

// RemoteRows pushes single-row actions to the remote table service.
type RemoteRows interface {
	PushRow(ctx context.Context, table, action string, row map[string]any) (json.RawMessage, error)
}

// JobsHandler writes job rows through to the remote table service
type JobsHandler struct {
	Remote RemoteRows
	Config *config.AppSheetConfig
	Logger *zap.Logger
}

func NewJobsHandler(remote RemoteRows, cfg *config.AppSheetConfig, logger *zap.Logger) *JobsHandler {
	return &JobsHandler{
		Remote: remote,
		Config: cfg,
		Logger: logger,
	}
}

// Add processes POST /jobs. Missing fields get the remote table's defaults;
// the activity field is coerced to a list either way it arrives.
func (h *JobsHandler) Add(c *fiber.Ctx) error {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON body",
		})
	}

	date := normalize.String(body["date"], "")
	if date == "" {
		date = time.Now().UTC().Format(time.RFC3339)
	}

	row := map[string]any{
		"Title":    normalize.String(body["title"], "Untitled"),
		"Date":     date,
		"Team":     normalize.String(body["teamId"], "Unassigned"),
		"Activity": normalize.List(body["activity"]),
		"Detail":   normalize.String(body["detail"], ""),
	}

	resp, err := h.Remote.PushRow(c.Context(), h.Config.JobsTable, appsheet.ActionAdd, row)
	if err != nil {
		return respondError(c, h.Logger, err)
	}

	return c.JSON(fiber.Map{
		"message":  "job row added",
		"response": resp,
	})
}

// Update processes POST /jobs/update. Only the provided fields are sent in
// the Edit action; the remote service leaves the rest of the row alone.
func (h *JobsHandler) Update(c *fiber.Ctx) error {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON body",
		})
	}

	rowID := normalize.String(body["rowId"], "")
	if rowID == "" {
		h.Logger.Warn("Job update without rowId")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing rowId",
		})
	}

	row := map[string]any{"Row ID": rowID}
	if raw, ok := body["date"]; ok {
		row["Date"] = normalize.String(raw, "")
	}
	if raw, ok := body["teamId"]; ok {
		row["Team"] = normalize.String(raw, "")
	}
	if raw, ok := body["title"]; ok {
		row["Title"] = normalize.String(raw, "")
	}
	if raw, ok := body["detail"]; ok {
		row["Detail"] = normalize.String(raw, "")
	}

	resp, err := h.Remote.PushRow(c.Context(), h.Config.JobsTable, appsheet.ActionEdit, row)
	if err != nil {
		return respondError(c, h.Logger, err)
	}

	return c.JSON(fiber.Map{
		"message":  "job row updated",
		"response": resp,
	})
}
