package handlers

import (
	"context"
	"errors"
	"time"

	"worklog-go/internal/config"
	"worklog-go/internal/models"
	"worklog-go/internal/repository"
	"worklog-go/internal/store"
	"worklog-go/internal/todolist"
	"worklog-go/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CreateTodoRequest struct {
	Text string `json:"text" validate:"required"`
}

type UpdateTodoRequest struct {
	Completed bool `json:"completed"`
}

func todoOwner(c *fiber.Ctx) (string, error) {
	user, err := repository.GetUser(c.Context(), currentUsername(c))
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// ListTodos mengembalikan daftar TODO user terurut waktu buat,
// placeholder yang masih pending ikut di akhir.
func ListTodos(c *fiber.Ctx) error {
	userID, err := todoOwner(c)
	if err != nil {
		return storeError(c, "Failed to read user", err)
	}
	todos, err := todolist.Load(c.Context(), config.Store, userID)
	if err != nil {
		return storeError(c, "Failed to read todos", err)
	}
	tracker := Todos.Tracker(userID)
	tracker.Sync(todos)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Todos retrieved successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    tracker.Items(),
	})
}

// CreateTodo menaruh placeholder optimistis, menulis ke store, lalu
// mengonfirmasi atau me-rollback placeholder sesuai hasilnya.
func CreateTodo(c *fiber.Ctx) error {
	var req CreateTodoRequest
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

	userID, err := todoOwner(c)
	if err != nil {
		return storeError(c, "Failed to read user", err)
	}
	tracker := Todos.Tracker(userID)
	tempID := tracker.Stage(models.Todo{
		UserID:    userID,
		Text:      req.Text,
		CreatedAt: models.NewTodoTime(time.Now().UTC()),
	})

	stored, err := todolist.Append(c.Context(), config.Store, userID, req.Text)
	if err != nil {
		// Penulisan gagal, buang placeholder dan muat ulang dari store
		logger.ErrorLogger.Error("Gagal menyimpan todo", zap.Error(err))
		reload, rerr := todolist.Load(c.Context(), config.Store, userID)
		if rerr != nil {
			reload = nil
		}
		tracker.Rollback(tempID, reload)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to save todo",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}
	if err := tracker.Confirm(tempID, stored); err != nil {
		logger.SystemLogger.Warn("Placeholder todo hilang saat konfirmasi",
			zap.String("temp_id", tempID))
	}

	notify(store.ColTodos, stored.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Todo created successfully",
		"success": true,
		"status":  fiber.StatusCreated,
		"data":    stored,
	})
}

// UpdateTodo menandai TODO selesai atau belum selesai.
func UpdateTodo(c *fiber.Ctx) error {
	id := c.Params("id")
	var req UpdateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}

	userID, err := todoOwner(c)
	if err != nil {
		return storeError(c, "Failed to read user", err)
	}
	if err := checkTodoOwner(c.Context(), id, userID); err != nil {
		return todoGuardError(c, err)
	}

	err = config.Store.UpdateFields(c.Context(), store.ColTodos, id, map[string]any{
		"completed": req.Completed,
	})
	if err == store.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Todo not found",
			"success": false,
			"status":  fiber.StatusNotFound,
		})
	}
	if err != nil {
		return storeError(c, "Failed to update todo", err)
	}

	notify(store.ColTodos, id)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Todo updated successfully",
		"success": true,
		"status":  fiber.StatusOK,
	})
}

// DeleteTodo menghapus satu TODO milik user.
func DeleteTodo(c *fiber.Ctx) error {
	id := c.Params("id")
	userID, err := todoOwner(c)
	if err != nil {
		return storeError(c, "Failed to read user", err)
	}
	if err := checkTodoOwner(c.Context(), id, userID); err != nil {
		return todoGuardError(c, err)
	}

	err = config.Store.DeleteByID(c.Context(), store.ColTodos, id)
	if err == store.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Todo not found",
			"success": false,
			"status":  fiber.StatusNotFound,
		})
	}
	if err != nil {
		return storeError(c, "Failed to delete todo", err)
	}

	notify(store.ColTodos, id)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Todo deleted successfully",
		"success": true,
		"status":  fiber.StatusOK,
	})
}

var errTodoForbidden = errors.New("todo belongs to another user")

// checkTodoOwner memastikan todo yang disentuh memang milik user.
// Mengembalikan error sentinel, bukan respons, supaya pemanggil yang
// menentukan status HTTP.
func checkTodoOwner(ctx context.Context, id, userID string) error {
	doc, err := config.Store.GetByID(ctx, store.ColTodos, id)
	if err != nil {
		return err
	}
	var todo models.Todo
	if err := doc.Decode(&todo); err != nil {
		return err
	}
	if todo.UserID != userID {
		return errTodoForbidden
	}
	return nil
}

func todoGuardError(c *fiber.Ctx, err error) error {
	switch err {
	case store.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Todo not found",
			"success": false,
			"status":  fiber.StatusNotFound,
		})
	case errTodoForbidden:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Todo belongs to another user",
			"success": false,
			"status":  fiber.StatusForbidden,
		})
	}
	return storeError(c, "Failed to read todo", err)
}
