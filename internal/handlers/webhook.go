package handlers

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/config"
	"github.com/Monticola-data/backend-kalendar/internal/models"
)

// NoticeStore is the slice of the store the webhook handler needs.
type NoticeStore interface {
	AppendNotice(ctx context.Context, rowID string) (*models.ChangeNotice, error)
	MarkNoticeError(ctx context.Context, id uuid.UUID, detail string) error
}

// TriggerPublisher publishes the relay trigger message.
type TriggerPublisher interface {
	PublishMessage(exchange, routingKey string, body []byte) error
}

// WebhookHandler ingests change notifications from the remote table service
type WebhookHandler struct {
	Notices NoticeStore
	Trigger TriggerPublisher
	Relay   *config.RelayConfig
	Logger  *zap.Logger
}

func NewWebhookHandler(notices NoticeStore, trigger TriggerPublisher, relay *config.RelayConfig, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		Notices: notices,
		Trigger: trigger,
		Relay:   relay,
		Logger:  logger,
	}
}

type webhookPayload struct {
	RowID string         `json:"rowId"`
	Data  map[string]any `json:"Data"`
}

// rowID extracts the row id from either payload shape the remote service
// sends: the bot form {Data:{"Row ID": ...}} or the plain {rowId: ...}.
func (p *webhookPayload) rowID() string {
	if p.Data != nil {
		if id, ok := p.Data["Row ID"].(string); ok && id != "" {
			return id
		}
	}
	return p.RowID
}

// Handle processes POST /webhook. The notice append is the durable step; the
// trigger publish is best-effort and a failure there only marks the notice
// error for inspection.
func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	var payload webhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON body",
		})
	}

	rowID := payload.rowID()
	if rowID == "" {
		h.Logger.Warn("Webhook request without row id")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing rowId",
		})
	}

	notice, err := h.Notices.AppendNotice(c.Context(), rowID)
	if err != nil {
		return respondError(c, h.Logger, err)
	}

	body, err := json.Marshal(models.TriggerMessage{NoticeID: notice.ID.String()})
	if err == nil {
		err = h.Trigger.PublishMessage(h.Relay.Exchange, h.Relay.RoutingKey, body)
	}
	if err != nil {
		h.Logger.Error("Failed to publish relay trigger",
			zap.String("notice_id", notice.ID.String()),
			zap.Error(err),
		)
		if markErr := h.Notices.MarkNoticeError(c.Context(), notice.ID, err.Error()); markErr != nil {
			h.Logger.Error("Failed to mark change notice as error",
				zap.String("notice_id", notice.ID.String()),
				zap.Error(markErr),
			)
		}
	}

	return c.JSON(fiber.Map{
		"message":  "change notice accepted",
		"noticeId": notice.ID.String(),
	})
}
