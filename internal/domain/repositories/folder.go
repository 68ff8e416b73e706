package repositories

import (
	"context"

	"portal/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create creates a new folder and fills in its generated fields
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID.
	// Returns domain.ErrNotFound if the folder doesn't exist
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// ListByPortal returns every folder of a portal in no particular order
	ListByPortal(ctx context.Context, portalID string) ([]models.Folder, error)

	// ListChildren lists immediate child folders of a folder
	ListChildren(ctx context.Context, folderID string) ([]models.Folder, error)
}

// FolderPermissionRepository defines data access for explicit folder grants
type FolderPermissionRepository interface {
	// ListByUserInPortal returns the user's grants on folders of the given portal,
	// keyed by folder ID
	ListByUserInPortal(ctx context.Context, userID, portalID string) (map[string]models.FolderPermission, error)

	// Upsert creates or replaces a grant
	Upsert(ctx context.Context, perm *models.FolderPermission) error
}
