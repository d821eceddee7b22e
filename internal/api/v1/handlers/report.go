package handlers

import (
	"fmt"
	"strings"

	"worklog-go/internal/reconcile"
	"worklog-go/internal/repository"
	"worklog-go/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportDayReport membuat laporan xlsx semua task semua user untuk satu
// tanggal (admin).
func ExportDayReport(c *fiber.Ctx) error {
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
	resolve := userResolver(users)
	rows = reconcile.Reconcile(rows, reconcile.Options{
		SortKey: "user", SortAsc: true, Resolve: resolve,
	})

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	header := []string{"User", "Origin", "Activity", "Remarks", "Date", "Tags"}
	for i, title := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	for i, row := range rows {
		display := row.User
		if full, ok := resolve(row.User); ok && full != "" {
			display = full
		}
		values := []any{display, row.Origin, row.Activity, row.Remarks, row.Date,
			strings.Join(row.Tags, ", ")}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.ErrorLogger.Error("Gagal menulis laporan xlsx", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to build report",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}

	logger.AuditLogger.Info("Laporan harian diekspor",
		zap.String("date", date), zap.String("by", currentUsername(c)),
		zap.Int("rows", len(rows)))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="report-%s.xlsx"`, date))
	return c.Send(buf.Bytes())
}
