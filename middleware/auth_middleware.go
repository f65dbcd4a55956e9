package middleware

import (
	"net/http"
	"strings"

	"ballotbox/auth"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the Locals key under which the authenticated user id is
// stored for downstream handlers.
const UserIDKey = "x-user-id"

// JwtAuthMiddleware rejects requests without a valid bearer token and
// stores the token's user id in Locals for the handler.
func JwtAuthMiddleware(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Authorization header format must be Bearer {token}"})
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals(UserIDKey, userID)

		return c.Next()
	}
}

// UserID reads the authenticated user id set by JwtAuthMiddleware.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(UserIDKey).(uint)
	return id, ok
}
