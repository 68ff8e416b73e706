package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"portal/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds the table names used by the repositories
type TableNames struct {
	Users             string
	Portals           string
	PortalAdmins      string
	Folders           string
	FolderPermissions string
}

// NewTableNames returns the table names created by the embedded migrations.
// Environments are isolated by schema (search_path), not by table prefix.
func NewTableNames() *TableNames {
	return &TableNames{
		Users:             "users",
		Portals:           "portals",
		PortalAdmins:      "portal_admins",
		Folders:           "folders",
		FolderPermissions: "folder_permissions",
	}
}

// CreateConnectionPool creates a new pgx connection pool bound to schema.
//
// Every connection gets search_path=<schema> so the same unqualified SQL serves
// dev, test and prod schemas side by side.
//
// Port 6543 (Supabase transaction pooler / PgBouncer) does not support prepared
// statements, so the cache_describe exec mode is selected there unless the
// connection string sets default_query_exec_mode explicitly.
func CreateConnectionPool(ctx context.Context, databaseURL, schema string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// Configure pool size
	config.MaxConns = 25
	config.MinConns = 5

	if schema != "" {
		config.ConnConfig.RuntimeParams["search_path"] = schema
	}

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
