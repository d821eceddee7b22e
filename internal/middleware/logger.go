package middleware

import (
	"time"

	"worklog-go/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger mencatat setiap request masuk beserta durasinya.
func RequestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	logger.RequestLogger.Info("Incoming request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.String("ip", c.IP()),
		zap.Duration("latency", time.Since(start)),
	)
	return err
}

// ErrorHandler menangkap panic dan error tak tertangani supaya server
// tetap hidup dan mengembalikan respons 500 yang rapi.
func ErrorHandler(c *fiber.Ctx) error {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorLogger.Error("Panic recovered",
				zap.Any("panic", r),
				zap.String("path", c.Path()),
			)
			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Internal server error",
				"success": false,
				"status":  fiber.StatusInternalServerError,
			})
		}
	}()
	return c.Next()
}
