package main

import (
	"database/sql"
	"fmt"
	"log"

	"portal/internal/config"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// Drops the current environment's schema and everything in it, including
// the migration version table. The server recreates it on next start when
// AUTO_MIGRATE is on.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if cfg.Environment == "prod" || cfg.DBSchema == "public" {
		log.Fatalf("Refusing to drop schema %q in environment %q", cfg.DBSchema, cfg.Environment)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	dropSQL := "DROP SCHEMA IF EXISTS " + pgx.Identifier{cfg.DBSchema}.Sanitize() + " CASCADE"
	if _, err := db.Exec(dropSQL); err != nil {
		log.Fatalf("Failed to drop schema: %v", err)
	}

	fmt.Printf("Schema dropped successfully (schema: %s)\n", cfg.DBSchema)
}
