// middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// UserContextMiddleware resolves the authenticated user for every wallet
// route. Two accepted identities:
//   - X-User-ID header set by the Gateway (the Gateway itself is
//     authenticated by GatewayAuthMiddleware)
//   - a Bearer session JWT for direct clients, signed with jwtSecret
//
// Requests with neither are rejected with 401.
func UserContextMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")

		if userID == "" && jwtSecret != "" {
			if token := bearerToken(c.Get("Authorization")); token != "" {
				id, err := userIDFromJWT(token, jwtSecret)
				if err != nil {
					zap.L().Warn("rejected session token", zap.String("path", c.Path()), zap.Error(err))
				} else {
					userID = id
				}
			}
		}

		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}

func bearerToken(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return ""
	}
	return strings.TrimSpace(token)
}

func userIDFromJWT(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	// Sessions carry the user id in "sub"; older tokens used "user_id".
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub, nil
	}
	if id, ok := claims["user_id"].(string); ok && id != "" {
		return id, nil
	}
	return "", jwt.ErrTokenInvalidClaims
}
