package main

import (
	"fmt"
	"log"

	"worklog-go/configs"
	v1 "worklog-go/internal/api/v1"
	"worklog-go/internal/api/v1/handlers"
	"worklog-go/internal/config"
	"worklog-go/internal/middleware"
	"worklog-go/internal/repository"
	"worklog-go/internal/store"
	ws "worklog-go/internal/websocket"
	"worklog-go/pkg/database"
	"worklog-go/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/websocket/v2"
)

func main() {
	// Inisialisasi logger
	logger.InitLoggers()
	defer logger.SyncLoggers()

	// Muat konfigurasi dari .env
	cfg := configs.LoadConfig()

	// Koneksi database dan siapkan tabel dokumen
	db := database.ConnectDB(cfg)
	repository.CreateTableIfNotExists(db)
	config.Store = store.NewPostgres(db)

	// Koneksi Redis untuk cache
	config.RedisClient = database.ConnectRedis(cfg)

	// Seed user admin dan jalankan pass perbaikan data
	if err := repository.SeedAdminUser(config.Ctx, cfg.AdminPassword); err != nil {
		log.Fatalf("Gagal membuat user admin: %v", err)
	}
	if err := repository.EnsureTaskStructure(config.Ctx); err != nil {
		log.Fatalf("Gagal memperbaiki struktur task: %v", err)
	}
	if err := repository.EnsureIDs(config.Ctx); err != nil {
		log.Fatalf("Gagal mengisi id: %v", err)
	}

	app := fiber.New()

	// Middleware global
	app.Use(middleware.ErrorHandler)
	app.Use(middleware.RequestLogger)
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{Max: 100}))

	// Hub websocket untuk event perubahan data
	hub := ws.NewHub()
	handlers.Hub = hub
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		hub.Register(conn)
	}))

	v1.RegisterRoutes(app)

	fmt.Printf("Server berjalan di port %d\n", cfg.AppPort)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.AppPort)); err != nil {
		log.Fatalf("Gagal menjalankan server: %v", err)
	}
}
