package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/facilityhub/helpdesk/internal/persistence"
)

const probeTimeout = 2 * time.Second

// HealthHandler responds to liveness and readiness probes. Postgres is a
// hard dependency; Redis is not, since the cache and sequence allocator
// fall back to the database when it is unreachable.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis}
}

// Live reports process liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready probes dependencies. Only a Postgres failure makes the service
// unready; a Redis failure is surfaced as degraded.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), probeTimeout)
	defer cancel()

	deps := fiber.Map{"postgres": "ok", "redis": "ok"}
	status := "ready"
	httpStatus := http.StatusOK

	if err := h.postgres.Ping(ctx); err != nil {
		deps["postgres"] = err.Error()
		status = "unready"
		httpStatus = http.StatusServiceUnavailable
	}
	if err := h.redis.Ping(ctx); err != nil {
		deps["redis"] = err.Error()
		if status == "ready" {
			status = "degraded"
		}
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":       status,
		"service":      h.serviceName,
		"version":      h.version,
		"dependencies": deps,
	})
}
