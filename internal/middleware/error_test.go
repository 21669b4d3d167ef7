package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qgda/qgda/internal/logging"
	"github.com/qgda/qgda/internal/models"
	"github.com/qgda/qgda/internal/services"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "fiber bad request",
			err:        fiber.ErrBadRequest,
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "ERROR",
			wantMsg:    "Bad Request",
		},
		{
			name:       "custom fiber error",
			err:        fiber.NewError(fiber.StatusTeapot, "I'm a teapot"),
			wantStatus: fiber.StatusTeapot,
			wantCode:   "ERROR",
			wantMsg:    "I'm a teapot",
		},
		{
			name:       "service error",
			err:        services.NewServiceError(services.CodeEmptySeries, "values must not be empty"),
			wantStatus: fiber.StatusBadRequest,
			wantCode:   services.CodeEmptySeries,
			wantMsg:    "values must not be empty",
		},
		{
			name:       "internal service error",
			err:        services.NewServiceError(services.CodeInternal, "boom"),
			wantStatus: fiber.StatusInternalServerError,
			wantCode:   services.CodeInternal,
			wantMsg:    "boom",
		},
		{
			name:       "plain error",
			err:        errors.New("something broke"),
			wantStatus: fiber.StatusInternalServerError,
			wantCode:   services.CodeInternal,
			wantMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{
				ErrorHandler: ErrorHandler(logging.NewNop()),
			})
			app.Get("/test", func(c *fiber.Ctx) error {
				return tt.err
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var out models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, tt.wantCode, out.Error.Code)
			assert.Equal(t, tt.wantMsg, out.Error.Message)
			assert.Equal(t, "/test", out.Error.Path)
		})
	}
}

func TestErrorHandler_WrappedFiberError(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(logging.NewNop()),
	})
	app.Get("/wrapped", func(c *fiber.Ctx) error {
		return errors.Join(errors.New("outer"), fiber.ErrNotFound)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/wrapped", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
