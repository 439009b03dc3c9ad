package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/spectech/internal/config"
	"github.com/example/spectech/internal/utils"
)

const claimsContextKey = "authClaims"

// AuthMiddleware validates JWT tokens and loads the decoded claims into context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(claimsContextKey, claims)
		return c.Next()
	}
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// Must run after AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := CurrentClaims(c)
		if !ok || !claims.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}
		return c.Next()
	}
}

// CurrentClaims extracts the authenticated token claims from context.
func CurrentClaims(c *fiber.Ctx) (utils.TokenClaims, bool) {
	value := c.Locals(claimsContextKey)
	if value == nil {
		return utils.TokenClaims{}, false
	}

	if claims, ok := value.(utils.TokenClaims); ok {
		return claims, true
	}

	return utils.TokenClaims{}, false
}

// GetCurrentUserID extracts the authenticated user ID from context. Admin
// tokens carry no user ID and report false.
func GetCurrentUserID(c *fiber.Ctx) (uint, bool) {
	claims, ok := CurrentClaims(c)
	if !ok || claims.UserID == 0 {
		return 0, false
	}
	return claims.UserID, true
}
