package middleware

import (
	"github.com/gofiber/fiber/v2"

	"university/backend/config"
	"university/backend/models"
	"university/backend/utils"
)

const identityKey = "identity"

// AuthMiddleware resolves the bearer token into an identity stored on the context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := utils.ExtractIdentityFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Authentication required")
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// CurrentIdentity returns the identity resolved by AuthMiddleware.
func CurrentIdentity(c *fiber.Ctx) (models.Identity, bool) {
	identity, ok := c.Locals(identityKey).(models.Identity)
	return identity, ok
}

func AdminMiddleware() fiber.Handler {
	return requireRole(models.RoleAdmin, "Admin access required")
}

func StudentMiddleware() fiber.Handler {
	return requireRole(models.RoleStudent, "Student access required")
}

func requireRole(role models.Role, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return utils.Unauthorized(c, "Authentication required")
		}
		if identity.Role != role {
			return utils.Forbidden(c, message)
		}
		return c.Next()
	}
}
