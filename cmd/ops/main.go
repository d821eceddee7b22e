// Perintah operasional: seed admin, ekspor dan impor backup lewat
// terminal tanpa menjalankan server.
package main

import (
	"fmt"
	"log"
	"os"

	"worklog-go/configs"
	"worklog-go/internal/backup"
	"worklog-go/internal/config"
	"worklog-go/internal/repository"
	"worklog-go/internal/store"
	"worklog-go/pkg/database"
	"worklog-go/pkg/logger"

	"github.com/spf13/cobra"
)

func connect() {
	logger.InitLoggers()
	cfg := configs.LoadConfig()
	db := database.ConnectDB(cfg)
	repository.CreateTableIfNotExists(db)
	config.Store = store.NewPostgres(db)
}

func main() {
	root := &cobra.Command{
		Use:   "ops",
		Short: "Perintah operasional worklog",
	}

	seedCmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Buat user admin dan jalankan pass perbaikan data",
		Run: func(cmd *cobra.Command, args []string) {
			connect()
			cfg := configs.LoadConfig()
			if err := repository.SeedAdminUser(config.Ctx, cfg.AdminPassword); err != nil {
				log.Fatalf("Gagal membuat user admin: %v", err)
			}
			if err := repository.EnsureTaskStructure(config.Ctx); err != nil {
				log.Fatalf("Gagal memperbaiki struktur task: %v", err)
			}
			if err := repository.EnsureIDs(config.Ctx); err != nil {
				log.Fatalf("Gagal mengisi id: %v", err)
			}
			fmt.Println("Seed admin selesai")
		},
	}

	var outFile string
	exportCmd := &cobra.Command{
		Use:   "export-all",
		Short: "Ekspor backup semua user ke satu file zip",
		Run: func(cmd *cobra.Command, args []string) {
			connect()
			users, err := repository.GetUsers(config.Ctx)
			if err != nil {
				log.Fatalf("Gagal membaca users: %v", err)
			}
			sets, err := repository.GetTaskSets(config.Ctx)
			if err != nil {
				log.Fatalf("Gagal membaca task sets: %v", err)
			}
			data, err := backup.ExportAllZip(users, sets)
			if err != nil {
				log.Fatalf("Gagal membuat arsip backup: %v", err)
			}
			if err := os.WriteFile(outFile, data, 0644); err != nil {
				log.Fatalf("Gagal menulis file: %v", err)
			}
			fmt.Printf("Backup %d user ditulis ke %s\n", len(users), outFile)
		},
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "backup.zip", "file zip tujuan")

	var defaultAction string
	importCmd := &cobra.Command{
		Use:   "import-all <file>",
		Short: "Impor arsip backup multi user",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			connect()
			data, err := os.ReadFile(args[0])
			if err != nil {
				log.Fatalf("Gagal membaca file: %v", err)
			}
			users, err := repository.GetUsers(config.Ctx)
			if err != nil {
				log.Fatalf("Gagal membaca users: %v", err)
			}
			sets, err := repository.GetTaskSets(config.Ctx)
			if err != nil {
				log.Fatalf("Gagal membaca task sets: %v", err)
			}
			decide := func(username string, exists bool) backup.Action {
				return backup.Action(defaultAction)
			}
			outcomes := backup.ImportAll(users, sets, data, decide)
			if err := repository.SaveUsers(config.Ctx, users); err != nil {
				log.Fatalf("Gagal menyimpan users: %v", err)
			}
			if err := repository.SaveTaskSets(config.Ctx, sets); err != nil {
				log.Fatalf("Gagal menyimpan task sets: %v", err)
			}
			for _, outcome := range outcomes {
				if outcome.Error != "" {
					fmt.Printf("%s: %s (%s)\n", outcome.Username, outcome.Action, outcome.Error)
					continue
				}
				fmt.Printf("%s: %s\n", outcome.Username, outcome.Action)
			}
		},
	}
	importCmd.Flags().StringVar(&defaultAction, "action", string(backup.ActionMerge),
		"aksi untuk tiap user: create, overwrite, merge, skip")

	root.AddCommand(seedCmd, exportCmd, importCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
