// Package handlers berisi seluruh handler HTTP v1.
package handlers

import (
	"time"

	"worklog-go/internal/session"
	"worklog-go/internal/todolist"
	"worklog-go/internal/websocket"

	"github.com/gofiber/fiber/v2"
)

var (
	// Sessions memegang sesi edit tabel semua user.
	Sessions = session.NewManager()
	// Todos memegang tracker TODO optimistis per user.
	Todos = todolist.NewManager()
	// Hub opsional; nil saat testing tanpa websocket.
	Hub *websocket.Hub
)

func notify(collection, key string) {
	if Hub != nil {
		Hub.Notify(collection, key)
	}
}

func todayStr() string {
	return time.Now().Format("2006-01-02")
}

func currentUsername(c *fiber.Ctx) string {
	username, _ := c.Locals("username").(string)
	return username
}

func isAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals("role").(string)
	return role == "admin"
}
