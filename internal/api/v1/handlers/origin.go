package handlers

import (
	"worklog-go/internal/config"
	"worklog-go/internal/models"
	"worklog-go/internal/repository"
	"worklog-go/internal/store"
	"worklog-go/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type OriginRequest struct {
	Value string `json:"value" validate:"required"`
}

// GetOrigins mengembalikan daftar origin; ?active=true menyaring yang
// sudah diarsip.
func GetOrigins(c *fiber.Ctx) error {
	var origins []models.Origin
	var err error
	if c.Query("active") == "true" {
		origins, err = repository.ActiveOrigins(c.Context())
	} else {
		origins, err = repository.GetOrigins(c.Context())
	}
	if err != nil {
		return storeError(c, "Failed to read origins", err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Origins retrieved successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    origins,
	})
}

// CreateOrigin menambahkan origin baru, nilai kembar ditolak.
func CreateOrigin(c *fiber.Ctx) error {
	var req OriginRequest
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

	origin := models.Origin{Value: req.Value}
	err := config.Store.CreateWithID(c.Context(), store.ColOrigins, origin.Value, origin)
	if err == store.ErrConflict {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Origin already exists",
			"success": false,
			"status":  fiber.StatusConflict,
		})
	}
	if err != nil {
		return storeError(c, "Failed to create origin", err)
	}

	logger.AuditLogger.Info("Origin dibuat",
		zap.String("value", origin.Value), zap.String("by", currentUsername(c)))
	notify(store.ColOrigins, origin.Value)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Origin created successfully",
		"success": true,
		"status":  fiber.StatusCreated,
		"data":    origin,
	})
}

// RenameOrigin mengganti nama origin dan menulis ulang semua task yang
// memakainya.
func RenameOrigin(c *fiber.Ctx) error {
	oldValue := c.Params("value")
	var req OriginRequest
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

	err := repository.RenameOrigin(c.Context(), oldValue, req.Value)
	if err == store.ErrConflict {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Origin already exists",
			"success": false,
			"status":  fiber.StatusConflict,
		})
	}
	if err == store.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Origin not found",
			"success": false,
			"status":  fiber.StatusNotFound,
		})
	}
	if err != nil {
		return storeError(c, "Failed to rename origin", err)
	}

	logger.AuditLogger.Info("Origin diganti nama",
		zap.String("old", oldValue), zap.String("new", req.Value),
		zap.String("by", currentUsername(c)))
	notify(store.ColOrigins, req.Value)
	notify(store.ColTasks, "")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Origin renamed successfully",
		"success": true,
		"status":  fiber.StatusOK,
	})
}

// ToggleOrigin membalik status arsip satu origin.
func ToggleOrigin(c *fiber.Ctx) error {
	value := c.Params("value")
	origins, err := repository.GetOrigins(c.Context())
	if err != nil {
		return storeError(c, "Failed to read origins", err)
	}
	found := false
	var archived bool
	for i := range origins {
		if origins[i].Value == value {
			origins[i].Archived = !origins[i].Archived
			archived = origins[i].Archived
			found = true
			break
		}
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Origin not found",
			"success": false,
			"status":  fiber.StatusNotFound,
		})
	}
	if err := repository.SaveOrigins(c.Context(), origins); err != nil {
		return storeError(c, "Failed to save origins", err)
	}

	logger.AuditLogger.Info("Origin diarsip/dibuka",
		zap.String("value", value), zap.Bool("archived", archived),
		zap.String("by", currentUsername(c)))
	notify(store.ColOrigins, value)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Origin toggled successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    fiber.Map{"value": value, "archived": archived},
	})
}
