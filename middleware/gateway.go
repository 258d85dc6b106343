// middleware/gateway.go
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GatewayAuthMiddleware guards the trusted identity header: a request may
// carry X-User-ID only if it also presents the Gateway's service token.
// Requests without X-User-ID pass through and must authenticate with a
// session JWT instead (see UserContextMiddleware).
func GatewayAuthMiddleware(expectedToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("X-User-ID") == "" {
			return c.Next()
		}

		serviceToken := c.Get("X-Service-Token")
		if serviceToken == "" {
			// Fall back to "Bearer <token>" for gateways that only set
			// Authorization.
			authHeader := c.Get("Authorization")
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token != authHeader {
				serviceToken = strings.TrimSpace(token)
			}
		}

		if expectedToken == "" || serviceToken != expectedToken {
			zap.L().Warn("rejected gateway identity header", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid gateway authentication token",
			})
		}

		return c.Next()
	}
}
