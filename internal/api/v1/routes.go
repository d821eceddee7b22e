// Package v1 mendaftarkan seluruh route API versi 1.
package v1

import (
	"worklog-go/internal/api/v1/handlers"
	"worklog-go/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes memasang semua endpoint di bawah /api/v1.
func RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/login", handlers.Login)

	users := api.Group("/users", middleware.UseToken)
	users.Put("/me/password", handlers.ChangePassword)
	users.Get("/", middleware.AdminOnly, handlers.GetUsers)
	users.Post("/", middleware.AdminOnly, handlers.CreateUser)
	users.Put("/:username", middleware.AdminOnly, handlers.UpdateUser)
	users.Delete("/:username", middleware.AdminOnly, handlers.DeleteUser)

	tasks := api.Group("/tasks", middleware.UseToken)
	tasks.Post("/", handlers.CreateTask)
	tasks.Get("/today", handlers.GetTodayTasks)
	tasks.Get("/archive/:date", handlers.GetArchiveTasks)
	tasks.Get("/view/:date", handlers.GetViewTasks)
	tasks.Get("/mass", handlers.GetMassTasks)
	tasks.Get("/meta", handlers.GetTaskMeta)

	session := api.Group("/session", middleware.UseToken)
	session.Post("/:tab/begin", handlers.BeginSession)
	session.Get("/:tab", handlers.GetSession)
	session.Patch("/:tab/tasks/:id", handlers.MutateSessionTask)
	session.Post("/:tab/select", handlers.SelectSessionTask)
	session.Post("/:tab/delete-selected", handlers.DeleteSelectedTasks)
	session.Post("/:tab/commit", handlers.CommitSession)
	session.Post("/:tab/discard", handlers.DiscardSession)

	origins := api.Group("/origins", middleware.UseToken)
	origins.Get("/", handlers.GetOrigins)
	origins.Post("/", middleware.AdminOnly, handlers.CreateOrigin)
	origins.Put("/:value", middleware.AdminOnly, handlers.RenameOrigin)
	origins.Post("/:value/toggle", middleware.AdminOnly, handlers.ToggleOrigin)

	holidays := api.Group("/holidays", middleware.UseToken)
	holidays.Get("/", handlers.GetHolidays)
	holidays.Get("/for/:date", handlers.GetHolidaysForDate)
	holidays.Post("/", middleware.AdminOnly, handlers.CreateHoliday)
	holidays.Delete("/:id", middleware.AdminOnly, handlers.DeleteHoliday)

	todos := api.Group("/todos", middleware.UseToken)
	todos.Get("/", handlers.ListTodos)
	todos.Post("/", handlers.CreateTodo)
	todos.Patch("/:id", handlers.UpdateTodo)
	todos.Delete("/:id", handlers.DeleteTodo)

	backup := api.Group("/backup", middleware.UseToken)
	backup.Get("/export", handlers.ExportBackup)
	backup.Get("/export-all", middleware.AdminOnly, handlers.ExportAllBackup)
	backup.Post("/import", handlers.ImportBackup)
	backup.Post("/import-all", middleware.AdminOnly, handlers.ImportAllBackup)

	reports := api.Group("/reports", middleware.UseToken)
	reports.Get("/:date/xlsx", middleware.AdminOnly, handlers.ExportDayReport)
}
