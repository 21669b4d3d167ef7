// Package middleware holds the statsd Fiber middlewares.
package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/qgda/qgda/internal/logging"
	"github.com/qgda/qgda/internal/models"
	"github.com/qgda/qgda/internal/services"
)

// ErrorHandler returns the app error handler. Fiber errors keep their
// status, service errors map to 400 (500 for internal failures) and anything
// else is an internal error.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		detail := models.ErrorDetail{
			Code:    services.CodeInternal,
			Message: "Internal Server Error",
			Path:    c.Path(),
		}

		var fe *fiber.Error
		var se *services.ServiceError
		switch {
		case errors.As(err, &fe):
			status = fe.Code
			detail.Code = "ERROR"
			detail.Message = fe.Message
		case errors.As(err, &se):
			if se.Code != services.CodeInternal {
				status = fiber.StatusBadRequest
			}
			detail.Code = se.Code
			detail.Message = se.Message
			detail.Details = se.Details
		}

		log := logger.Warn
		if status >= fiber.StatusInternalServerError {
			log = logger.Error
		}
		log("Request error",
			"request_id", logging.RequestID(c.UserContext()),
			"path", c.Path(),
			"method", c.Method(),
			"status", status,
			"error", err,
		)

		return c.Status(status).JSON(models.ErrorResponse{Error: detail})
	}
}
