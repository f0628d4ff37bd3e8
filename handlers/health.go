package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/utils/response"
)

// HealthChecker is the part of the store the health check needs
type HealthChecker interface {
	HealthCheck() error
}

// HandleCheckHealth reports process and database health
// GET /ping
func HandleCheckHealth(store HealthChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			log.Printf("Health check failed: %v", err)
			return response.ServiceUnavailable(c, "Database unavailable")
		}
		return response.Success(c, fiber.Map{"status": "ok", "database": "ok"})
	}
}
