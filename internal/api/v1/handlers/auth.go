package handlers

import (
	"worklog-go/internal/config"
	"worklog-go/internal/middleware"
	"worklog-go/internal/repository"
	"worklog-go/internal/store"
	"worklog-go/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login memeriksa username dan password lalu mengembalikan JWT.
func Login(c *fiber.Ctx) error {
	var req LoginRequest

	// Kembalikan error 400 jika body tidak valid
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}

	user, err := repository.GetUser(c.Context(), req.Username)
	if err == store.ErrNotFound {
		logger.SecurityLogger.Warn("Login gagal, user tidak ditemukan",
			zap.String("username", req.Username), zap.String("ip", c.IP()))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid username or password",
			"success": false,
			"status":  fiber.StatusUnauthorized,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Gagal membaca user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to read user",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}

	if user.Password == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		logger.SecurityLogger.Warn("Login gagal, password salah",
			zap.String("username", req.Username), zap.String("ip", c.IP()))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid username or password",
			"success": false,
			"status":  fiber.StatusUnauthorized,
		})
	}

	// Role admin melekat pada username admin
	role := "user"
	if user.Username == "admin" {
		role = "admin"
	}
	token, err := middleware.GenerateToken(user.Username, role)
	if err != nil {
		logger.ErrorLogger.Error("Gagal membuat token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to generate token",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}

	logger.AuditLogger.Info("User login",
		zap.String("username", user.Username), zap.String("role", role))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"success": true,
		"status":  fiber.StatusOK,
		"data": fiber.Map{
			"token":    token,
			"username": user.Username,
			"role":     role,
			"fullname": user.FullName(),
		},
	})
}
