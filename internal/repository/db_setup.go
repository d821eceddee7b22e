package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"worklog-go/internal/config"
	"worklog-go/internal/models"
	"worklog-go/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func CreateTableIfNotExists(db *sql.DB) {
	query := `
CREATE TABLE IF NOT EXISTS documents (
    collection VARCHAR(64) NOT NULL,
    id VARCHAR(255) NOT NULL,
    doc JSONB NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (collection, id)
);
    `

	_, err := db.Exec(query)
	if err != nil {
		log.Fatalf("Error creating table: %v", err)
	} else {
		fmt.Println("Table 'documents' is ready.")
	}
}

// SeedAdminUser membuat user admin (beserta TaskSet kosong) jika belum ada.
func SeedAdminUser(ctx context.Context, password string) error {
	_, err := config.Store.GetByID(ctx, store.ColUsers, "admin")
	if err == nil {
		return nil
	}
	if err != store.ErrNotFound {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		ID:       uuid.NewString(),
		Username: "admin",
		Password: string(hashedPassword),
	}
	if err := config.Store.CreateWithID(ctx, store.ColUsers, "admin", admin); err != nil {
		return err
	}
	taskSet := models.TaskSet{}
	taskSet.EnsureStructure()
	if err := config.Store.CreateWithID(ctx, store.ColTasks, "admin", taskSet); err != nil && err != store.ErrConflict {
		return err
	}
	fmt.Println("Admin user 'admin' is created.")
	return nil
}

func DeleteAllTable(db *sql.DB) {
	query := `
    DROP TABLE IF EXISTS documents;
    `

	_, err := db.Exec(query)
	if err != nil {
		log.Fatalf("Error deleting table: %v", err)
	} else {
		fmt.Println("Table 'documents' is deleted.")
	}
}
