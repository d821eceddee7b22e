package handlers

import (
	"worklog-go/internal/config"
	"worklog-go/internal/models"
	"worklog-go/internal/repository"
	"worklog-go/internal/store"
	"worklog-go/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Surname     string `json:"surname"`
	Firstname   string `json:"firstname"`
	Middlename  string `json:"middlename"`
	Designation string `json:"designation"`
}

type UpdateUserRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Surname     string `json:"surname"`
	Firstname   string `json:"firstname"`
	Middlename  string `json:"middlename"`
	Designation string `json:"designation"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// GetUsers mengembalikan semua user tanpa field password.
func GetUsers(c *fiber.Ctx) error {
	users, err := repository.GetUsers(c.Context())
	if err != nil {
		logger.ErrorLogger.Error("Gagal membaca users", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to read users",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}
	list := []models.User{}
	for _, user := range users {
		user.Password = ""
		list = append(list, user)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Users retrieved successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    list,
	})
}

// CreateUser menambahkan user baru beserta task set kosongnya.
func CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
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

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to hash password",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}

	user := models.User{
		ID:          uuid.NewString(),
		Username:    req.Username,
		Password:    string(hashed),
		Surname:     req.Surname,
		Firstname:   req.Firstname,
		Middlename:  req.Middlename,
		Designation: req.Designation,
	}
	err = config.Store.CreateWithID(c.Context(), store.ColUsers, user.Username, user)
	if err == store.ErrConflict {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Username already exists",
			"success": false,
			"status":  fiber.StatusConflict,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Gagal membuat user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create user",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}

	// Setiap user punya tepat satu task set
	var ts models.TaskSet
	ts.EnsureStructure()
	if err := config.Store.CreateWithID(c.Context(), store.ColTasks, user.Username, ts); err != nil && err != store.ErrConflict {
		logger.ErrorLogger.Error("Gagal membuat task set", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create task set",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}

	logger.AuditLogger.Info("User dibuat",
		zap.String("username", user.Username), zap.String("by", currentUsername(c)))
	notify(store.ColUsers, user.Username)
	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"success": true,
		"status":  fiber.StatusCreated,
		"data":    user,
	})
}

// UpdateUser mengubah profil user. Rename username memindahkan dokumen
// user dan task setnya dalam satu siklus simpan.
func UpdateUser(c *fiber.Ctx) error {
	oldUsername := c.Params("username")
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}

	users, err := repository.GetUsers(c.Context())
	if err != nil {
		logger.ErrorLogger.Error("Gagal membaca users", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to read users",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}
	user, ok := users[oldUsername]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  fiber.StatusNotFound,
		})
	}

	newUsername := req.Username
	if newUsername == "" {
		newUsername = oldUsername
	}
	if newUsername != oldUsername {
		if oldUsername == "admin" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Admin user cannot be renamed",
				"success": false,
				"status":  fiber.StatusBadRequest,
			})
		}
		if _, taken := users[newUsername]; taken {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Username already exists",
				"success": false,
				"status":  fiber.StatusConflict,
			})
		}
	}

	user.Username = newUsername
	user.Surname = req.Surname
	user.Firstname = req.Firstname
	user.Middlename = req.Middlename
	user.Designation = req.Designation
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to hash password",
				"success": false,
				"status":  fiber.StatusInternalServerError,
			})
		}
		user.Password = string(hashed)
	}

	delete(users, oldUsername)
	users[newUsername] = user
	if err := repository.SaveUsers(c.Context(), users); err != nil {
		logger.ErrorLogger.Error("Gagal menyimpan users", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to save users",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}

	// Task set ikut pindah saat rename
	if newUsername != oldUsername {
		sets, err := repository.GetTaskSets(c.Context())
		if err != nil {
			logger.ErrorLogger.Error("Gagal membaca task sets", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to read task sets",
				"success": false,
				"status":  fiber.StatusInternalServerError,
			})
		}
		ts := sets[oldUsername]
		ts.EnsureStructure()
		delete(sets, oldUsername)
		sets[newUsername] = ts
		if err := repository.SaveTaskSets(c.Context(), sets); err != nil {
			logger.ErrorLogger.Error("Gagal menyimpan task sets", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to save task sets",
				"success": false,
				"status":  fiber.StatusInternalServerError,
			})
		}
		repository.InvalidateUser(c.Context(), oldUsername)
	}

	logger.AuditLogger.Info("User diubah",
		zap.String("username", oldUsername), zap.String("new_username", newUsername),
		zap.String("by", currentUsername(c)))
	notify(store.ColUsers, newUsername)
	user.Password = ""
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User updated successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    user,
	})
}

// DeleteUser menghapus user beserta task setnya. User admin tidak bisa
// dihapus.
func DeleteUser(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "admin" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Admin user cannot be deleted",
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}

	err := config.Store.DeleteByID(c.Context(), store.ColUsers, username)
	if err == store.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  fiber.StatusNotFound,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Gagal menghapus user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete user",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}
	if err := config.Store.DeleteByID(c.Context(), store.ColTasks, username); err != nil && err != store.ErrNotFound {
		logger.ErrorLogger.Error("Gagal menghapus task set", zap.Error(err))
	}
	repository.InvalidateUser(c.Context(), username)

	logger.AuditLogger.Info("User dihapus",
		zap.String("username", username), zap.String("by", currentUsername(c)))
	notify(store.ColUsers, username)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User deleted successfully",
		"success": true,
		"status":  fiber.StatusOK,
	})
}

// ChangePassword mengganti password user yang sedang login.
func ChangePassword(c *fiber.Ctx) error {
	username := currentUsername(c)
	var req ChangePasswordRequest
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

	user, err := repository.GetUser(c.Context(), username)
	if err != nil {
		logger.ErrorLogger.Error("Gagal membaca user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to read user",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)) != nil {
		logger.SecurityLogger.Warn("Ganti password gagal, password lama salah",
			zap.String("username", username))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Old password is incorrect",
			"success": false,
			"status":  fiber.StatusUnauthorized,
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to hash password",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}
	err = config.Store.UpdateFields(c.Context(), store.ColUsers, username, map[string]any{
		"password": string(hashed),
	})
	if err != nil {
		logger.ErrorLogger.Error("Gagal menyimpan password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to save password",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}
	repository.InvalidateUser(c.Context(), username)

	logger.AuditLogger.Info("Password diganti", zap.String("username", username))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password changed successfully",
		"success": true,
		"status":  fiber.StatusOK,
	})
}
