package handlers

import (
	"encoding/json"
	"io"

	"worklog-go/internal/backup"
	"worklog-go/internal/repository"
	"worklog-go/internal/store"
	"worklog-go/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// readUpload membaca file multipart "file" dari request.
func readUpload(c *fiber.Ctx) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// ExportBackup mengunduh backup JSON user yang sedang login.
func ExportBackup(c *fiber.Ctx) error {
	username := currentUsername(c)
	user, err := repository.GetUser(c.Context(), username)
	if err != nil {
		return storeError(c, "Failed to read user", err)
	}
	ts, err := repository.GetTaskSet(c.Context(), username)
	if err != nil {
		return storeError(c, "Failed to read tasks", err)
	}

	data, err := backup.ExportUser(user, ts)
	if err != nil {
		return storeError(c, "Failed to build backup", err)
	}

	logger.AuditLogger.Info("Backup diekspor", zap.String("username", username))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+username+`.json"`)
	return c.Send(data)
}

// ExportAllBackup mengunduh zip backup semua user (admin).
func ExportAllBackup(c *fiber.Ctx) error {
	users, err := repository.GetUsers(c.Context())
	if err != nil {
		return storeError(c, "Failed to read users", err)
	}
	sets, err := repository.GetTaskSets(c.Context())
	if err != nil {
		return storeError(c, "Failed to read tasks", err)
	}

	data, err := backup.ExportAllZip(users, sets)
	if err != nil {
		return storeError(c, "Failed to build backup archive", err)
	}

	logger.AuditLogger.Info("Backup semua user diekspor",
		zap.String("by", currentUsername(c)), zap.Int("users", len(users)))
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="backup.zip"`)
	return c.Send(data)
}

// ImportBackup menerapkan satu file backup ke user yang sedang login.
// Mode "overwrite" mengganti seluruh task, selain itu digabungkan.
func ImportBackup(c *fiber.Ctx) error {
	username := currentUsername(c)
	data, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing backup file",
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}

	user, err := repository.GetUser(c.Context(), username)
	if err != nil {
		return storeError(c, "Failed to read user", err)
	}
	current, err := repository.GetTaskSet(c.Context(), username)
	if err != nil {
		return storeError(c, "Failed to read tasks", err)
	}

	overwrite := c.FormValue("mode") == "overwrite"
	ts, err := backup.ImportUser(user, current, data, overwrite)
	if err == backup.ErrUserMismatch {
		logger.SecurityLogger.Warn("Impor backup ditolak, pemilik berbeda",
			zap.String("username", username))
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Backup belongs to a different user",
			"success": false,
			"status":  fiber.StatusForbidden,
		})
	}
	if err == backup.ErrBadFormat {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unrecognized backup format",
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}
	if err != nil {
		return storeError(c, "Failed to import backup", err)
	}

	if err := repository.SaveTaskSet(c.Context(), username, ts); err != nil {
		return storeError(c, "Failed to save tasks", err)
	}

	logger.AuditLogger.Info("Backup diimpor",
		zap.String("username", username), zap.Bool("overwrite", overwrite))
	notify(store.ColTasks, username)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Backup imported successfully",
		"success": true,
		"status":  fiber.StatusOK,
	})
}

// ImportAllBackup menerapkan arsip multi user (admin). Keputusan per
// user dikirim di form decisions (JSON map username -> action), sisanya
// memakai default.
func ImportAllBackup(c *fiber.Ctx) error {
	data, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing backup file",
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}

	defaultAction := backup.Action(c.FormValue("default", string(backup.ActionSkip)))
	decisions := map[string]backup.Action{}
	if raw := c.FormValue("decisions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &decisions); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid decisions payload",
				"success": false,
				"status":  fiber.StatusBadRequest,
			})
		}
	}
	decide := func(username string, exists bool) backup.Action {
		if action, ok := decisions[username]; ok {
			return action
		}
		return defaultAction
	}

	users, err := repository.GetUsers(c.Context())
	if err != nil {
		return storeError(c, "Failed to read users", err)
	}
	sets, err := repository.GetTaskSets(c.Context())
	if err != nil {
		return storeError(c, "Failed to read tasks", err)
	}

	outcomes := backup.ImportAll(users, sets, data, decide)
	if err := repository.SaveUsers(c.Context(), users); err != nil {
		return storeError(c, "Failed to save users", err)
	}
	if err := repository.SaveTaskSets(c.Context(), sets); err != nil {
		return storeError(c, "Failed to save tasks", err)
	}

	logger.AuditLogger.Info("Backup semua user diimpor",
		zap.String("by", currentUsername(c)), zap.Int("files", len(outcomes)))
	notify(store.ColUsers, "")
	notify(store.ColTasks, "")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Backup import finished",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    outcomes,
	})
}
