package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/glpi-gateway/internal/observability"
	"github.com/spec-kit/glpi-gateway/internal/persistence"
	"github.com/spec-kit/glpi-gateway/internal/service"
)

// HealthHandler responds to liveness and readiness probes and exposes the
// caller-facing connectivity check against GLPI.
type HealthHandler struct {
	serviceName string
	version     string
	tickets     *service.TicketService
	postgres    *persistence.Postgres
	redis       *persistence.Redis
	metrics     *observability.Metrics
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, tickets *service.TicketService, postgres *persistence.Postgres, redis *persistence.Redis, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		tickets:     tickets,
		postgres:    postgres,
		redis:       redis,
		metrics:     metrics,
	}
}

// Welcome responds on the root route.
func (h *HealthHandler) Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "glpi-gateway: simplified ticket API backed by GLPI",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies. Postgres is
// optional; when unconfigured it reports disabled instead of failing.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if h.postgres.PoolHandle() == nil {
		depStatus["postgres"] = "disabled"
	} else if err := h.postgres.Ping(ctx); err != nil {
		depStatus["postgres"] = err.Error()
		ready = false
	} else {
		depStatus["postgres"] = "ok"
	}

	if err := h.redis.Ping(ctx); err != nil {
		depStatus["redis"] = err.Error()
		ready = false
	} else {
		depStatus["redis"] = "ok"
	}

	if err := h.tickets.CheckConnection(ctx); err != nil {
		depStatus["glpi"] = err.Error()
		ready = false
	} else {
		depStatus["glpi"] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}

// Metrics dumps the in-process request and error counters.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"requests": h.metrics.RequestCounts(),
		"errors":   h.metrics.ErrorCounts(),
	})
}

// Connection acquires and discards a GLPI session to verify credentials.
func (h *HealthHandler) Connection(c *fiber.Ctx) error {
	if err := h.tickets.CheckConnection(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "connected"})
}
