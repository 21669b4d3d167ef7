// Package handlers implements the statsd HTTP endpoints.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qgda/qgda/internal/logging"
	"github.com/qgda/qgda/internal/models"
	"github.com/qgda/qgda/internal/services"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Handler contains all HTTP handlers
type Handler struct {
	logger *logging.Logger
	stats  *services.StatsService
}

// New creates a new handler instance
func New(logger *logging.Logger, stats *services.StatsService) *Handler {
	return &Handler{
		logger: logger,
		stats:  stats,
	}
}

func badJSON(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_JSON",
			Message: "Failed to parse JSON body",
			Path:    c.Path(),
			Details: map[string]interface{}{"error": err.Error()},
		},
	})
}

// serviceError writes a ServiceError as JSON; other errors go to the app
// error handler.
func (h *Handler) serviceError(c *fiber.Ctx, err error) error {
	svcErr, ok := err.(*services.ServiceError)
	if !ok {
		return err
	}

	status := fiber.StatusBadRequest
	if svcErr.Code == services.CodeInternal {
		status = fiber.StatusInternalServerError
		h.logger.Error("Stats computation failed", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    svcErr.Code,
			Message: svcErr.Message,
			Path:    c.Path(),
			Details: svcErr.Details,
		},
	})
}
