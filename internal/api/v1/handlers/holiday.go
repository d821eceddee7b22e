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

type HolidayRequest struct {
	Date   string `json:"date" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Repeat bool   `json:"repeat"`
}

// GetHolidays mengembalikan semua holiday.
func GetHolidays(c *fiber.Ctx) error {
	holidays, err := repository.GetHolidays(c.Context())
	if err != nil {
		return storeError(c, "Failed to read holidays", err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Holidays retrieved successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    holidays,
	})
}

// CreateHoliday menambahkan satu holiday.
func CreateHoliday(c *fiber.Ctx) error {
	var req HolidayRequest
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

	holiday := models.Holiday{Date: req.Date, Name: req.Name, Repeat: req.Repeat}
	err := config.Store.CreateWithID(c.Context(), store.ColHolidays, holiday.StorageID(), holiday)
	if err == store.ErrConflict {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Holiday already exists",
			"success": false,
			"status":  fiber.StatusConflict,
		})
	}
	if err != nil {
		return storeError(c, "Failed to create holiday", err)
	}

	logger.AuditLogger.Info("Holiday dibuat",
		zap.String("date", holiday.Date), zap.String("name", holiday.Name),
		zap.String("by", currentUsername(c)))
	notify(store.ColHolidays, holiday.StorageID())
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Holiday created successfully",
		"success": true,
		"status":  fiber.StatusCreated,
		"data":    holiday,
	})
}

// DeleteHoliday menghapus holiday berdasarkan id penyimpanan.
func DeleteHoliday(c *fiber.Ctx) error {
	id := c.Params("id")
	err := config.Store.DeleteByID(c.Context(), store.ColHolidays, id)
	if err == store.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Holiday not found",
			"success": false,
			"status":  fiber.StatusNotFound,
		})
	}
	if err != nil {
		return storeError(c, "Failed to delete holiday", err)
	}

	logger.AuditLogger.Info("Holiday dihapus",
		zap.String("id", id), zap.String("by", currentUsername(c)))
	notify(store.ColHolidays, id)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Holiday deleted successfully",
		"success": true,
		"status":  fiber.StatusOK,
	})
}

// GetHolidaysForDate mencari holiday untuk satu tanggal, termasuk yang
// berulang tiap tahun.
func GetHolidaysForDate(c *fiber.Ctx) error {
	date := c.Params("date")
	holidays, err := repository.HolidaysForDate(c.Context(), date)
	if err != nil {
		return storeError(c, "Failed to read holidays", err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Holidays retrieved successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    holidays,
	})
}
