package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/domain/repositories"
)

// PostgresFolderPermissionRepository implements the FolderPermissionRepository interface
type PostgresFolderPermissionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderPermissionRepository creates a new folder permission repository
func NewFolderPermissionRepository(config *RepositoryConfig) repositories.FolderPermissionRepository {
	return &PostgresFolderPermissionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// ListByUserInPortal returns the user's explicit grants on the portal's folders
func (r *PostgresFolderPermissionRepository) ListByUserInPortal(ctx context.Context, userID, portalID string) (map[string]models.FolderPermission, error) {
	query := fmt.Sprintf(`
		SELECT p.user_id, p.folder_id, p.can_edit, p.can_view
		FROM %s p
		JOIN %s f ON f.id = p.folder_id
		WHERE p.user_id = $1 AND f.portal_id = $2
	`, r.tables.FolderPermissions, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, portalID)
	if err != nil {
		return nil, storeError("list folder permissions", err)
	}
	defer rows.Close()

	perms := make(map[string]models.FolderPermission)
	for rows.Next() {
		var p models.FolderPermission
		if err := rows.Scan(&p.UserID, &p.FolderID, &p.CanEdit, &p.CanView); err != nil {
			return nil, storeError("scan folder permission", err)
		}
		perms[p.FolderID] = p
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate folder permissions", err)
	}

	return perms, nil
}

// Upsert creates or replaces a grant
func (r *PostgresFolderPermissionRepository) Upsert(ctx context.Context, perm *models.FolderPermission) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, folder_id, can_edit, can_view)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, folder_id) DO UPDATE SET
			can_edit = EXCLUDED.can_edit,
			can_view = EXCLUDED.can_view
	`, r.tables.FolderPermissions)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, perm.UserID, perm.FolderID, perm.CanEdit, perm.CanView); err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("folder permission: %w", domain.ErrNotFound)
		}
		return storeError("upsert folder permission", err)
	}
	return nil
}
