package middleware

import (
	"strings"

	"contactbook/internal/models"
	"contactbook/internal/repositories"
	"contactbook/internal/services"

	"github.com/gofiber/fiber/v2"
)

const userContextKey = "currentUser"

// AuthRequired resolves the current user from the bearer token and
// stores it in the request context. Every failure mode (missing header,
// bad format, invalid or expired token, user gone) yields the same 401
// so nothing about the token is leaked.
func AuthRequired(tokens *services.TokenService, users repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c)
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return unauthorized(c)
		}

		email, err := tokens.Decode(parts[1])
		if err != nil {
			return unauthorized(c)
		}

		user, err := users.GetByEmail(email)
		if err != nil || user == nil {
			return unauthorized(c)
		}

		c.Locals(userContextKey, user)
		return c.Next()
	}
}

// RequireRoles passes the request through only when the current user's
// role is among the allowed names. AuthRequired must run first.
func RequireRoles(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c)
		}
		for _, name := range allowed {
			if user.Role.Name == name {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You are not authorized to access this resource",
		})
	}
}

// CurrentUser returns the user stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userContextKey).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx) error {
	c.Set("WWW-Authenticate", "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Could not validate credentials",
	})
}
