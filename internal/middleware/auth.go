package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
)

// Auth validates the bearer token and stashes the caller's identity in
// locals. Role checks happen in RequireRole; this only establishes who the
// caller is.
func Auth(jwtSecret string) fiber.Handler {
	secret := []byte(jwtSecret)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "unauthenticated"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(401).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return c.Status(401).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "invalid token claims"})
		}

		sub, _ := claims["sub"].(string)
		userID, err := strconv.ParseInt(sub, 10, 64)
		if err != nil || userID <= 0 {
			return c.Status(401).JSON(fiber.Map{"error": "invalid token: missing subject"})
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		if !model.ValidRole(role) {
			return c.Status(401).JSON(fiber.Map{"error": "invalid token: unknown role"})
		}

		c.Locals("user_id", userID)
		c.Locals("username", username)
		c.Locals("role", role)
		return c.Next()
	}
}

// RequireRole rejects callers below min on the role ladder
// (member < admin < creator). Must run after Auth.
func RequireRole(min string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if !model.RoleAtLeast(role, min) {
			return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
		}
		return c.Next()
	}
}

// UserID returns the authenticated caller's id from locals.
func UserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals("user_id").(int64)
	return id
}

// Username returns the authenticated caller's username from locals.
func Username(c *fiber.Ctx) string {
	name, _ := c.Locals("username").(string)
	return name
}

// Role returns the authenticated caller's role from locals.
func Role(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}
