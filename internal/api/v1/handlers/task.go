package handlers

import (
	"strings"

	"worklog-go/internal/config"
	"worklog-go/internal/models"
	"worklog-go/internal/reconcile"
	"worklog-go/internal/repository"
	"worklog-go/internal/store"
	"worklog-go/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateTaskRequest struct {
	Origin   string   `json:"origin" validate:"required"`
	Activity string   `json:"activity" validate:"required"`
	Remarks  string   `json:"remarks"`
	Date     string   `json:"date"`
	Tags     []string `json:"tags"`
}

// Kolom yang dikenal reconciler, dipakai parser query dan /tasks/meta.
var tableColumns = []string{"user", "origin", "activity", "remarks", "date", "tags"}

// queryAll membaca semua nilai satu query key (?k=a&k=b).
func queryAll(c *fiber.Ctx, key string) []string {
	raw := c.Request().URI().QueryArgs().PeekMulti(key)
	values := []string{}
	for _, v := range raw {
		values = append(values, string(v))
	}
	return values
}

// parseOptions membangun opsi reconcile dari query string:
// filter_<kolom>=nilai (boleh berulang), sort, order, search.
func parseOptions(c *fiber.Ctx, resolve func(string) (string, bool)) reconcile.Options {
	filters := map[string][]string{}
	for _, column := range tableColumns {
		if values := queryAll(c, "filter_"+column); len(values) > 0 {
			filters[column] = values
		}
	}
	return reconcile.Options{
		Filters: filters,
		Search:  c.Query("search"),
		SortKey: c.Query("sort"),
		SortAsc: c.Query("order") != "desc",
		Resolve: resolve,
	}
}

// parseScope membaca cakupan tanggal mass editor dari query string.
func parseScope(c *fiber.Ctx) reconcile.DateScope {
	scope := reconcile.DateScope{
		Type:  c.Query("scope", reconcile.ScopeAll),
		Month: c.Query("month"),
		Week:  c.Query("week"),
		Start: c.Query("start"),
		End:   c.Query("end"),
	}
	if dates := c.Query("dates"); dates != "" {
		for _, d := range strings.Split(dates, ",") {
			if d = strings.TrimSpace(d); d != "" {
				scope.Dates = append(scope.Dates, d)
			}
		}
	}
	return scope
}

// userResolver membuat resolver nama lengkap untuk kolom user sintetis.
func userResolver(users map[string]models.User) func(string) (string, bool) {
	return func(username string) (string, bool) {
		user, ok := users[username]
		if !ok {
			return "", false
		}
		return user.FullName(), true
	}
}

func storeError(c *fiber.Ctx, msg string, err error) error {
	logger.ErrorLogger.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": msg,
		"success": false,
		"status":  fiber.StatusInternalServerError,
	})
}

func rowsResponse(c *fiber.Ctx, rows []reconcile.Row) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Tasks retrieved successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    rows,
	})
}

// CreateTask mencatat satu task baru ke bucket sesuai tanggalnya.
func CreateTask(c *fiber.Ctx) error {
	username := currentUsername(c)
	var req CreateTaskRequest
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

	// Origin harus terdaftar dan belum diarsip
	origins, err := repository.ActiveOrigins(c.Context())
	if err != nil {
		return storeError(c, "Failed to read origins", err)
	}
	valid := false
	for _, origin := range origins {
		if origin.Value == req.Origin {
			valid = true
			break
		}
	}
	if !valid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unknown or archived origin",
			"success": false,
			"status":  fiber.StatusBadRequest,
		})
	}

	task := models.Task{
		ID:       uuid.NewString(),
		Origin:   req.Origin,
		Activity: req.Activity,
		Remarks:  req.Remarks,
		Date:     req.Date,
		Tags:     req.Tags,
	}
	today := todayStr()
	if task.Date == "" {
		task.Date = today
	}

	ts, err := repository.GetTaskSet(c.Context(), username)
	if err != nil {
		return storeError(c, "Failed to read tasks", err)
	}
	if task.Date == today {
		ts.Today = append(ts.Today, task)
	} else {
		ts.Archive[task.Date] = append(ts.Archive[task.Date], task)
	}
	if err := repository.SaveTaskSet(c.Context(), username, ts); err != nil {
		return storeError(c, "Failed to save tasks", err)
	}

	notify(store.ColTasks, username)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Task created successfully",
		"success": true,
		"status":  fiber.StatusCreated,
		"data":    task,
	})
}

// GetTodayTasks mengembalikan bucket today user, sudah direconcile.
func GetTodayTasks(c *fiber.Ctx) error {
	username := currentUsername(c)
	ts, err := repository.GetTaskSet(c.Context(), username)
	if err != nil {
		return storeError(c, "Failed to read tasks", err)
	}
	rows := []reconcile.Row{}
	for _, task := range ts.Today {
		rows = append(rows, reconcile.FromTask(task))
	}
	return rowsResponse(c, reconcile.Reconcile(rows, parseOptions(c, nil)))
}

// GetArchiveTasks mengembalikan satu bucket arsip user.
func GetArchiveTasks(c *fiber.Ctx) error {
	username := currentUsername(c)
	date := c.Params("date")
	ts, err := repository.GetTaskSet(c.Context(), username)
	if err != nil {
		return storeError(c, "Failed to read tasks", err)
	}
	rows := []reconcile.Row{}
	for _, task := range ts.Archive[date] {
		rows = append(rows, reconcile.FromTask(task))
	}
	return rowsResponse(c, reconcile.Reconcile(rows, parseOptions(c, nil)))
}

// GetViewTasks mengembalikan task semua user untuk satu tanggal (tabel
// lintas user, dengan kolom user).
func GetViewTasks(c *fiber.Ctx) error {
	date := c.Params("date")
	users, err := repository.GetUsers(c.Context())
	if err != nil {
		return storeError(c, "Failed to read users", err)
	}
	sets, err := repository.GetTaskSets(c.Context())
	if err != nil {
		return storeError(c, "Failed to read tasks", err)
	}

	today := todayStr()
	rows := []reconcile.Row{}
	for username, ts := range sets {
		bucket := ts.Archive[date]
		if date == today {
			bucket = ts.Today
		}
		for _, task := range bucket {
			rows = append(rows, reconcile.FromUserTask(username, task))
		}
	}
	opts := parseOptions(c, userResolver(users))
	return rowsResponse(c, reconcile.Reconcile(rows, opts))
}

// GetMassTasks mengembalikan seluruh task user (semua bucket) dengan
// cakupan tanggal mass editor. Admin boleh melihat user lain lewat
// query user, sama seperti begin sesi mass.
func GetMassTasks(c *fiber.Ctx) error {
	username := currentUsername(c)
	target := username
	if q := c.Query("user"); q != "" && q != username {
		if !isAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Cannot view another user's tasks",
				"success": false,
				"status":  fiber.StatusForbidden,
			})
		}
		target = q
	}
	ts, err := repository.GetTaskSet(c.Context(), target)
	if err != nil {
		return storeError(c, "Failed to read tasks", err)
	}
	rows := []reconcile.Row{}
	for _, task := range ts.AllTasks() {
		rows = append(rows, reconcile.FromTask(task))
	}
	rows = reconcile.FilterByScope(rows, parseScope(c))
	return rowsResponse(c, reconcile.Reconcile(rows, parseOptions(c, nil)))
}

// GetTaskMeta mengembalikan nilai unik tiap kolom untuk dropdown filter.
func GetTaskMeta(c *fiber.Ctx) error {
	username := currentUsername(c)
	ts, err := repository.GetTaskSet(c.Context(), username)
	if err != nil {
		return storeError(c, "Failed to read tasks", err)
	}
	rows := []reconcile.Row{}
	for _, task := range ts.AllTasks() {
		rows = append(rows, reconcile.FromTask(task))
	}
	meta := fiber.Map{}
	for _, column := range tableColumns {
		if column == "user" {
			continue
		}
		meta[column] = reconcile.DistinctValues(rows, column, reconcile.Options{})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Task metadata retrieved successfully",
		"success": true,
		"status":  fiber.StatusOK,
		"data":    meta,
	})
}
