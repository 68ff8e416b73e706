package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"portal/internal/auth"
	"portal/internal/config"
	"portal/internal/repository/postgres"
	"portal/internal/seed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	fixturePath := flag.String("fixture", "fixtures/dev.yaml", "YAML fixture to load")
	schemaOnly := flag.Bool("schema-only", false, "Only apply migrations, don't seed data")
	clearData := flag.Bool("clear-data", false, "Delete all rows before seeding")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *clearData {
		log.Fatalf("BLOCKED: cannot run --clear-data in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("seeding database",
		"environment", cfg.Environment,
		"schema", cfg.DBSchema,
		"fixture", *fixturePath,
	)

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, cfg.DBSchema)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Run migrations to ensure tables exist
	if err := postgres.Migrate(ctx, pool, cfg.DatabaseURL, cfg.DBSchema, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if *schemaOnly {
		logger.Info("schema setup complete (schema-only mode)")
		return
	}

	tables := postgres.NewTableNames()

	if *clearData {
		if err := clearAllData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		logger.Info("existing data cleared")
	}

	fixture, err := seed.LoadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	hasher, err := auth.NewPasswordHasher(cfg.PasswordScheme)
	if err != nil {
		log.Fatalf("Failed to create password hasher: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	seeder := seed.NewSeeder(
		postgres.NewUserRepository(repoConfig),
		postgres.NewPortalRepository(repoConfig),
		postgres.NewFolderRepository(repoConfig),
		postgres.NewFolderPermissionRepository(repoConfig),
		postgres.NewTransactionManager(pool, logger),
		hasher,
		logger,
	)

	if _, err := seeder.Apply(ctx, fixture); err != nil {
		log.Fatalf("Failed to seed: %v (use --clear-data to reseed)", err)
	}

	logger.Info("seeding complete")
}

// clearAllData deletes every row, children first to respect foreign keys
func clearAllData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.FolderPermissions,
		tables.PortalAdmins,
		tables.Folders,
		tables.Portals,
		tables.Users,
	}

	for _, table := range tableNames {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	return nil
}
