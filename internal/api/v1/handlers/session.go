package handlers

import (
	"worklog-go/internal/reconcile"
	"worklog-go/internal/repository"
	"worklog-go/internal/session"
	"worklog-go/internal/store"
	"worklog-go/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type BeginSessionRequest struct {
	User string `json:"user"`
	Date string `json:"date"`
}

type MutateTaskRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

type SelectTaskRequest struct {
	ID       string `json:"id"`
	Selected bool   `json:"selected"`
	Clear    bool   `json:"clear"`
}

func sessionError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch err {
	case session.ErrActive:
		status = fiber.StatusConflict
	case session.ErrNoSession, session.ErrNoTask:
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{
		"message": err.Error(),
		"success": false,
		"status":  status,
	})
}

func validTab(tab string) bool {
	return tab == session.TabToday || tab == session.TabArchive || tab == session.TabMass
}

// BeginSession membuka sesi edit satu tab. Pending diisi dari bucket
// yang sesuai tab; admin boleh mengedit task user lain lewat field user.
func BeginSession(c *fiber.Ctx) error {
	tab := c.Params("tab")
	if !validTab(tab) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unknown tab",
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}

	var req BeginSessionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}

	username := currentUsername(c)
	target := username
	if req.User != "" && req.User != username {
		if !isAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Cannot edit another user's tasks",
				"success": false,
				"status":  fiber.StatusForbidden,
			})
		}
		target = req.User
	}

	if tab == session.TabArchive && req.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Archive tab requires a date",
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}

	ts, err := repository.GetTaskSet(c.Context(), target)
	if err != nil {
		return storeError(c, "Failed to read tasks", err)
	}
	var seed = ts.Today
	switch tab {
	case session.TabArchive:
		seed = ts.Archive[req.Date]
	case session.TabMass:
		seed = ts.AllTasks()
	}

	if err := Sessions.Begin(username, tab, target, req.Date, seed); err != nil {
		return sessionError(c, err)
	}
	logger.AuditLogger.Info("Sesi edit dibuka",
		zap.String("username", username), zap.String("tab", tab), zap.String("target", target))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Edit session started",
		"success": true,
		"status":  fiber.StatusOK,
	})
}

// GetSession mengembalikan pending sesi lewat reconciler.
func GetSession(c *fiber.Ctx) error {
	pending, err := Sessions.PendingSnapshot(currentUsername(c), c.Params("tab"))
	if err != nil {
		return sessionError(c, err)
	}
	rows := []reconcile.Row{}
	for _, task := range pending {
		rows = append(rows, reconcile.FromTask(task))
	}
	return rowsResponse(c, reconcile.Reconcile(rows, parseOptions(c, nil)))
}

// MutateSessionTask mengubah satu field task di pending.
func MutateSessionTask(c *fiber.Ctx) error {
	var req MutateTaskRequest
	if err := c.BodyParser(&req); err != nil || req.Field == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}
	err := Sessions.MutateField(currentUsername(c), c.Params("tab"), c.Params("id"), req.Field, req.Value)
	if err != nil {
		return sessionError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Task updated",
		"success": true,
		"status":  fiber.StatusOK,
	})
}

// SelectSessionTask menandai baris untuk dihapus, atau membersihkan
// seluruh pilihan.
func SelectSessionTask(c *fiber.Ctx) error {
	var req SelectTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}
	username := currentUsername(c)
	tab := c.Params("tab")
	if req.Clear {
		if err := Sessions.ClearSelection(username, tab); err != nil {
			return sessionError(c, err)
		}
	} else if err := Sessions.SetSelected(username, tab, req.ID, req.Selected); err != nil {
		return sessionError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Selection updated",
		"success": true,
		"status":  fiber.StatusOK,
	})
}

// DeleteSelectedTasks membuang baris terpilih dari pending.
func DeleteSelectedTasks(c *fiber.Ctx) error {
	removed, err := Sessions.DeleteSelected(currentUsername(c), c.Params("tab"))
	if err != nil {
		return sessionError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Selected tasks removed",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    fiber.Map{"removed": removed},
	})
}

// CommitSession menulis pending ke store sesuai aturan tab. Sesi selalu
// ditutup, juga saat penulisan gagal.
func CommitSession(c *fiber.Ctx) error {
	username := currentUsername(c)
	tab := c.Params("tab")
	sess, err := Sessions.Finish(username, tab)
	if err != nil {
		return sessionError(c, err)
	}

	ts, err := repository.GetTaskSet(c.Context(), sess.TargetUser)
	if err != nil {
		return storeError(c, "Failed to read tasks", err)
	}
	today := todayStr()
	switch tab {
	case session.TabToday:
		session.CommitToday(&ts, sess.Pending, today)
	case session.TabArchive:
		session.CommitArchive(&ts, sess.Pending, sess.DateKey, today)
	case session.TabMass:
		session.CommitAll(&ts, sess.Pending, today)
	}
	if err := repository.SaveTaskSet(c.Context(), sess.TargetUser, ts); err != nil {
		return storeError(c, "Failed to save tasks", err)
	}

	logger.AuditLogger.Info("Sesi edit di-commit",
		zap.String("username", username), zap.String("tab", tab), zap.String("target", sess.TargetUser))
	notify(store.ColTasks, sess.TargetUser)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Changes committed",
		"success": true,
		"status":  fiber.StatusOK,
	})
}

// DiscardSession menutup sesi dan menulis balik salinan original.
func DiscardSession(c *fiber.Ctx) error {
	username := currentUsername(c)
	tab := c.Params("tab")
	sess, err := Sessions.Finish(username, tab)
	if err != nil {
		return sessionError(c, err)
	}

	ts, err := repository.GetTaskSet(c.Context(), sess.TargetUser)
	if err != nil {
		return storeError(c, "Failed to read tasks", err)
	}
	switch tab {
	case session.TabToday:
		ts.Today = sess.Original
	case session.TabArchive:
		if len(sess.Original) == 0 {
			delete(ts.Archive, sess.DateKey)
		} else {
			ts.Archive[sess.DateKey] = sess.Original
		}
	case session.TabMass:
		session.CommitAll(&ts, sess.Original, todayStr())
	}
	if err := repository.SaveTaskSet(c.Context(), sess.TargetUser, ts); err != nil {
		return storeError(c, "Failed to save tasks", err)
	}

	notify(store.ColTasks, sess.TargetUser)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Changes discarded",
		"success": true,
		"status":  fiber.StatusOK,
	})
}
