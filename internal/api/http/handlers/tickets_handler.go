package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/glpi-gateway/internal/api/dto"
	"github.com/spec-kit/glpi-gateway/internal/auth"
	"github.com/spec-kit/glpi-gateway/internal/service"
	apperrors "github.com/spec-kit/glpi-gateway/pkg/util/errorutil"
)

// TicketsHandler manages the ticket pipeline endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create POST /v1/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("caller required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), principal.CallerID, service.CreateTicketInput{
		Description:   req.Description,
		Status:        req.Status,
		OpeningDate:   req.OpeningDate,
		Requester:     req.Requester,
		RequestSource: req.RequestSource,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Get GET /v1/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("ticket id must be numeric", map[string]any{"id": c.Params("id")})
	}
	ticket, err := h.service.GetTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// GetByName GET /v1/tickets/by-name/:name.
func (h *TicketsHandler) GetByName(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	ticket, err := h.service.GetTicketByName(c.UserContext(), name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Recent GET /v1/tickets/recent.
func (h *TicketsHandler) Recent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("caller required")
	}
	ticket, err := h.service.RecentTicket(c.UserContext(), principal.CallerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Submissions GET /v1/submissions.
func (h *TicketsHandler) Submissions(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("caller required")
	}
	limit := c.QueryInt("limit", 20)
	records, err := h.service.RecentSubmissions(c.UserContext(), principal.CallerID, limit)
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.SubmissionResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.FromSubmission(rec))
	}
	return c.JSON(fiber.Map{"data": items})
}
