package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/domain/repositories"
)

const folderColumns = `id, portal_id, parent_id, name, description, is_universal, created_at, updated_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (portal_id, parent_id, name, description, is_universal)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.PortalID,
		folder.ParentID,
		folder.Name,
		folder.Description,
		folder.IsUniversal,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("folder %q parent or portal: %w", folder.Name, domain.ErrNotFound)
		}
		return storeError("create folder", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, id)
	if err != nil {
		return nil, storeError("get folder", err)
	}

	folder, err := pgx.CollectExactlyOneRow(rows, scanFolder)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, storeError("get folder", err)
	}

	return &folder, nil
}

// ListByPortal returns all folders belonging to a portal
func (r *PostgresFolderRepository) ListByPortal(ctx context.Context, portalID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE portal_id = $1`, folderColumns, r.tables.Folders)
	return r.list(ctx, "list portal folders", query, portalID)
}

// ListChildren lists immediate child folders
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, folderID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id = $1 ORDER BY name ASC`, folderColumns, r.tables.Folders)
	return r.list(ctx, "list child folders", query, folderID)
}

func (r *PostgresFolderRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]models.Folder, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError(op, err)
	}

	folders, err := pgx.CollectRows(rows, scanFolder)
	if err != nil {
		return nil, storeError(op, err)
	}

	// Return empty slice instead of nil
	if folders == nil {
		folders = []models.Folder{}
	}
	return folders, nil
}

func scanFolder(row pgx.CollectableRow) (models.Folder, error) {
	var f models.Folder
	err := row.Scan(
		&f.ID,
		&f.PortalID,
		&f.ParentID,
		&f.Name,
		&f.Description,
		&f.IsUniversal,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}
