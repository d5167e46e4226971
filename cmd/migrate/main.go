package main

import (
	"log"

	"visaforge-be/internal/config"
	"visaforge-be/internal/model"
	"visaforge-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		log.Fatal("missing DB_CONNECTION_STRING")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		color.Yellow("Warn: Failed to create pgcrypto: %v. Continuing...", err)
	}

	color.Cyan("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.User{},
		&model.VisaApp{},
		&model.EvidenceUpload{},
		&model.Task{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed")
		log.Fatalf("AutoMigrate: %v", err)
	}

	color.Cyan("Step 3: Creating indexes...")
	postMigrationSQL := []string{
		// customer lookups by payer email are case-insensitive
		`CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users (lower(email));`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_open_due ON tasks (due_date) WHERE status <> 'done';`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	color.Green("✅ Success: Database migration completed.")
}
