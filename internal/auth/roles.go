package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManasMalla/devfest-vizag-2025/pkg/util/errorutil"
)

// RequireSignedIn rejects anonymous callers.
func RequireSignedIn() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if IdentityFromContext(c) == nil {
			return errorutil.NewUnauthenticated("You must be signed in.")
		}
		return c.Next()
	}
}
