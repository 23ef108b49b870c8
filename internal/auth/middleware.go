package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

const identityKey = "auth_identity"

// Authenticate verifies an optional bearer token. Requests with a missing or
// invalid credential continue anonymously.
func Authenticate(gate *Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if identity := gate.Verify(c.UserContext(), bearerToken(c)); identity != nil {
			c.Locals(identityKey, identity)
		}
		return c.Next()
	}
}

// IdentityFromContext returns the verified caller, or nil when anonymous.
func IdentityFromContext(c *fiber.Ctx) *domain.Identity {
	identity, _ := c.Locals(identityKey).(*domain.Identity)
	return identity
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
