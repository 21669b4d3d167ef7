package router

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qgda/qgda/internal/config"
	"github.com/qgda/qgda/internal/logging"
	"github.com/qgda/qgda/internal/models"
)

func TestNew_Routes(t *testing.T) {
	app := New(logging.NewNop(), *config.DefaultConfig())

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{"GET", "/health", "", fiber.StatusOK},
		{"POST", "/v1/stats/mean", `{"values":[1,2,3]}`, fiber.StatusOK},
		{"POST", "/v1/stats/acf", `{"values":[1,2,3]}`, fiber.StatusOK},
		{"POST", "/v1/stats/corr-length", `{"values":[1,2,3]}`, fiber.StatusOK},
		{"POST", "/v1/stats/round", `{"value":1.2345,"conf":0.1}`, fiber.StatusOK},
		{"GET", "/v1/stats/mean", "", fiber.StatusNotFound},
		{"GET", "/nope", "", fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestNew_RequestID(t *testing.T) {
	app := New(logging.NewNop(), *config.DefaultConfig())

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(logging.RequestIDHeader, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get(logging.RequestIDHeader))

	resp, err = app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(logging.RequestIDHeader))
}

func TestNew_AuthProtectsV1Only(t *testing.T) {
	cfg := *config.DefaultConfig()
	key := strings.Repeat("k", 32)
	cfg.Auth = config.AuthConfig{Enabled: true, APIKeys: []string{key}}
	app := New(logging.NewNop(), cfg)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req := httptest.NewRequest("POST", "/v1/stats/mean", strings.NewReader(`{"values":[1]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("POST", "/v1/stats/mean", strings.NewReader(`{"values":[1]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", key)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out models.MeanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, models.Number(1), out.Mean)
}
