package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/apperrors"
)

// respondError maps the error taxonomy to HTTP responses: validation -> 400,
// upstream -> 500 with the upstream body passed through verbatim, anything
// else -> opaque 500. Failures are always a JSON body, never a 2xx.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": vErr.Error(),
		})
	}

	var uErr *apperrors.UpstreamError
	if errors.As(err, &uErr) {
		logger.Error("Remote table service call failed",
			zap.Int("upstream_status", uErr.Status),
			zap.Error(err),
		)
		body := uErr.Body
		if body == "" {
			body = uErr.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": body,
		})
	}

	logger.Error("Request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}
