package services

import (
	"context"

	"portal/internal/domain/models"
)

// PermissionResolver derives per-folder rights from explicit grants, portal admin
// membership, the super role and folder universality.
type PermissionResolver interface {
	// ResolveFolderPermissions returns the viewable folders of a portal annotated
	// with canEdit/canView. Nil claims yield domain.ErrUnauthorized
	ResolveFolderPermissions(ctx context.Context, portalID string, claims *models.Claims) (*models.PortalFolders, error)

	// GetFolderDetails returns one folder and its viewable children.
	// Returns domain.ErrForbidden when the folder exists but is not viewable
	GetFolderDetails(ctx context.Context, folderID string, claims *models.Claims) (*models.FolderDetails, error)
}
