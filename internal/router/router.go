// Package router wires the statsd HTTP routes and middlewares.
package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/qgda/qgda/internal/config"
	"github.com/qgda/qgda/internal/handlers"
	"github.com/qgda/qgda/internal/logging"
	"github.com/qgda/qgda/internal/middleware"
	"github.com/qgda/qgda/internal/services"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, services.NewStatsService(logger, cfg.Stats))

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger, logging.DefaultMiddlewareConfig()))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	v1 := app.Group("/v1", middleware.APIKeyAuth(logger, cfg.Auth))

	stats := v1.Group("/stats")
	stats.Post("/mean", h.Mean)
	stats.Post("/acf", h.ACF)
	stats.Post("/corr-length", h.CorrLength)
	stats.Post("/round", h.Round)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "qgda statsd",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
	})

	Setup(app, logger, cfg)

	return app
}
