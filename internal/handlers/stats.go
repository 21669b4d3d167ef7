package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qgda/qgda/internal/models"
)

// Mean handles POST /v1/stats/mean
func (h *Handler) Mean(c *fiber.Ctx) error {
	var req models.SeriesRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c, err)
	}

	resp, err := h.stats.Mean(c.UserContext(), &req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(resp)
}

// ACF handles POST /v1/stats/acf
func (h *Handler) ACF(c *fiber.Ctx) error {
	var req models.ACFRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c, err)
	}

	resp, err := h.stats.ACF(c.UserContext(), &req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(resp)
}

// CorrLength handles POST /v1/stats/corr-length
func (h *Handler) CorrLength(c *fiber.Ctx) error {
	var req models.SeriesRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c, err)
	}

	resp, err := h.stats.CorrLength(c.UserContext(), &req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(resp)
}

// Round handles POST /v1/stats/round
func (h *Handler) Round(c *fiber.Ctx) error {
	var req models.RoundRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c, err)
	}

	resp, err := h.stats.Round(c.UserContext(), &req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(resp)
}
