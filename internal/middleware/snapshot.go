package middleware

import (
	"context"
	"errors"

	"datahealth-web/internal/models"
	"datahealth-web/internal/repository"
	"datahealth-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const healthCheckKey = "health_check"

// SnapshotLoader is the part of the health check service the middleware needs
type SnapshotLoader interface {
	Get(ctx context.Context, token string) (*models.HealthCheck, error)
}

// SnapshotMiddleware resolves the :token route parameter into the stored
// health check and makes it available through HealthCheck.
func SnapshotMiddleware(loader SnapshotLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Params("token")
		if _, err := uuid.Parse(token); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Unknown health check")
		}

		check, err := loader.Get(c.UserContext(), token)
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Health check not found or expired. Please upload the file again.")
		}
		if err != nil {
			utils.GetLogger().WithError(err).WithField("token", token).Error("Failed to load health check")
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load health check")
		}

		c.Locals(healthCheckKey, check)
		return c.Next()
	}
}

// HealthCheck returns the health check stored by SnapshotMiddleware
func HealthCheck(c *fiber.Ctx) *models.HealthCheck {
	check, _ := c.Locals(healthCheckKey).(*models.HealthCheck)
	return check
}
