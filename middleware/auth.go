// middleware/auth.go
package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// PlayerContextMiddleware extracts the player identity from a bearer token
// into c.Locals("player_id"). Requests without a valid token pass through
// anonymously — quest lookups work for everyone, and handlers that need a
// player check for an empty ID themselves.
func PlayerContextMiddleware(jwtSecret string) fiber.Handler {
	secret := []byte(jwtSecret)
	return func(c *fiber.Ctx) error {
		c.Locals("player_id", "")

		auth := c.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			return c.Next()
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}
		if claims, ok := token.Claims.(*jwt.RegisteredClaims); ok {
			c.Locals("player_id", claims.Subject)
		}
		return c.Next()
	}
}

// PlayerID reads the identity set by PlayerContextMiddleware. Empty means
// anonymous.
func PlayerID(c *fiber.Ctx) string {
	if id, ok := c.Locals("player_id").(string); ok {
		return id
	}
	return ""
}
