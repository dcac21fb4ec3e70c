package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/glpi-gateway/internal/service"
)

// OptionsHandler serves the enumeration option listings, passed through from
// GLPI unmodified.
type OptionsHandler struct {
	service *service.TicketService
}

// NewOptionsHandler constructs handler.
func NewOptionsHandler(ticketService *service.TicketService) *OptionsHandler {
	return &OptionsHandler{service: ticketService}
}

// Statuses GET /v1/options/statuses.
func (h *OptionsHandler) Statuses(c *fiber.Ctx) error {
	raw, err := h.service.StatusOptions(c.UserContext())
	if err != nil {
		return err
	}
	return sendOptions(c, raw)
}

// RequestSources GET /v1/options/request-sources.
func (h *OptionsHandler) RequestSources(c *fiber.Ctx) error {
	raw, err := h.service.RequestSourceOptions(c.UserContext())
	if err != nil {
		return err
	}
	return sendOptions(c, raw)
}

func sendOptions(c *fiber.Ctx, raw json.RawMessage) error {
	return c.JSON(fiber.Map{"data": raw})
}
