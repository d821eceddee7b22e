package middleware

import (
	"strings"
	"time"

	"worklog-go/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateToken membuat JWT HS256 berisi username dan role, berlaku
// 24 jam.
func GenerateToken(username, role string) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.SecretKey)
}

// UseToken memeriksa header Authorization Bearer, memvalidasi token,
// dan menaruh username serta role ke locals.
func UseToken(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Missing authorization header",
			"success": false,
			"status":  fiber.StatusUnauthorized,
		})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return config.SecretKey, nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired token",
			"success": false,
			"status":  fiber.StatusUnauthorized,
		})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid token claims",
			"success": false,
			"status":  fiber.StatusUnauthorized,
		})
	}

	// Simpan identitas user ke locals untuk handler berikutnya
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	c.Locals("username", username)
	c.Locals("role", role)

	return c.Next()
}

// AdminOnly menolak request dari user non admin.
func AdminOnly(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Admin access required",
			"success": false,
			"status":  fiber.StatusForbidden,
		})
	}
	return c.Next()
}
