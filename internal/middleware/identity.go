package middleware

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-testsheets/internal/models"
)

// CallerKey is the fiber Locals key holding the resolved *models.User
const CallerKey = "caller"

// CallerResolver resolves a session token to a local user, nil for anonymous
type CallerResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// Identity resolves the caller from the session cookie and stores it in
// Locals. It never rejects a request; a failed resolution leaves the caller
// anonymous.
func Identity(resolver CallerResolver, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" || resolver == nil {
			return c.Next()
		}

		caller, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			log.Printf("Caller resolution failed, continuing as anonymous: %v", err)
			return c.Next()
		}
		if caller != nil {
			c.Locals(CallerKey, caller)
		}

		return c.Next()
	}
}

// Caller returns the resolved caller, or nil when anonymous
func Caller(c *fiber.Ctx) *models.User {
	caller, _ := c.Locals(CallerKey).(*models.User)
	return caller
}
