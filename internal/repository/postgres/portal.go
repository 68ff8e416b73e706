package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/domain/repositories"
)

// PostgresPortalRepository implements the PortalRepository interface
type PostgresPortalRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPortalRepository creates a new portal repository
func NewPortalRepository(config *RepositoryConfig) repositories.PortalRepository {
	return &PostgresPortalRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetActiveByName retrieves an active portal by its slug
func (r *PostgresPortalRepository) GetActiveByName(ctx context.Context, name string) (*models.Portal, error) {
	query := fmt.Sprintf(`
		SELECT id, name, display_name, description, logo_url, banner_url, is_active, created_at
		FROM %s
		WHERE name = $1 AND is_active
	`, r.tables.Portals)

	var portal models.Portal
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, name).Scan(
		&portal.ID,
		&portal.Name,
		&portal.DisplayName,
		&portal.Description,
		&portal.LogoURL,
		&portal.BannerURL,
		&portal.IsActive,
		&portal.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("portal %q: %w", name, domain.ErrNotFound)
		}
		return nil, storeError("get portal", err)
	}

	return &portal, nil
}

// Create inserts a portal
func (r *PostgresPortalRepository) Create(ctx context.Context, portal *models.Portal) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, display_name, description, logo_url, banner_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, r.tables.Portals)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		portal.Name,
		portal.DisplayName,
		portal.Description,
		portal.LogoURL,
		portal.BannerURL,
		portal.IsActive,
	).Scan(&portal.ID, &portal.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return domain.NewConflictError("portal")
		}
		return storeError("create portal", err)
	}

	return nil
}

// IsPortalAdmin reports whether the user administers the portal
func (r *PostgresPortalRepository) IsPortalAdmin(ctx context.Context, portalID, userID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE portal_id = $1 AND user_id = $2)
	`, r.tables.PortalAdmins)

	var isAdmin bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, portalID, userID).Scan(&isAdmin); err != nil {
		return false, storeError("check portal admin", err)
	}
	return isAdmin, nil
}

// AddAdmin records portal admin membership; existing rows are left untouched
func (r *PostgresPortalRepository) AddAdmin(ctx context.Context, admin *models.PortalAdmin) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (portal_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (portal_id, user_id) DO NOTHING
	`, r.tables.PortalAdmins)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, admin.PortalID, admin.UserID); err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("portal admin: %w", domain.ErrNotFound)
		}
		return storeError("add portal admin", err)
	}
	return nil
}
