package service

import (
	"context"
	"fmt"
	"log/slog"

	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/domain/repositories"
	"portal/internal/domain/services"
)

// AccessContext is everything about the caller that folder rights depend on
type AccessContext struct {
	Role          models.Role
	IsPortalAdmin bool
	Grants        map[string]models.FolderPermission
}

// Access computes the effective rights on one folder.
// Portal admins and supers see and edit everything; universal folders are
// viewable by every authenticated user but grant no edit right.
func (a AccessContext) Access(folder models.Folder) models.FolderAccess {
	grant := a.Grants[folder.ID]
	elevated := a.IsPortalAdmin || a.Role == models.RoleSuper

	return models.FolderAccess{
		Folder:  folder,
		CanEdit: elevated || grant.CanEdit,
		CanView: elevated || grant.CanView || folder.IsUniversal,
	}
}

// Visible annotates folders and drops the ones the caller cannot view.
// Input order is preserved.
func (a AccessContext) Visible(folders []models.Folder) []models.FolderAccess {
	out := make([]models.FolderAccess, 0, len(folders))
	for _, f := range folders {
		if access := a.Access(f); access.CanView {
			out = append(out, access)
		}
	}
	return out
}

type permissionResolver struct {
	folderRepo repositories.FolderRepository
	permRepo   repositories.FolderPermissionRepository
	portalRepo repositories.PortalRepository
	logger     *slog.Logger
}

// NewPermissionResolver creates a new permission resolver
func NewPermissionResolver(
	folderRepo repositories.FolderRepository,
	permRepo repositories.FolderPermissionRepository,
	portalRepo repositories.PortalRepository,
	logger *slog.Logger,
) services.PermissionResolver {
	return &permissionResolver{
		folderRepo: folderRepo,
		permRepo:   permRepo,
		portalRepo: portalRepo,
		logger:     logger,
	}
}

// ResolveFolderPermissions lists the portal's folders the caller may view
func (r *permissionResolver) ResolveFolderPermissions(ctx context.Context, portalID string, claims *models.Claims) (*models.PortalFolders, error) {
	if claims == nil || claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing identity", domain.ErrUnauthorized)
	}
	if portalID == "" {
		return nil, fmt.Errorf("%w: portal ID is required", domain.ErrValidation)
	}

	folders, err := r.folderRepo.ListByPortal(ctx, portalID)
	if err != nil {
		return nil, err
	}

	access, err := r.accessContext(ctx, portalID, claims)
	if err != nil {
		return nil, err
	}

	visible := access.Visible(folders)

	r.logger.Debug("folder permissions resolved",
		"portal_id", portalID,
		"user_id", claims.UserID,
		"total", len(folders),
		"visible", len(visible),
		"portal_admin", access.IsPortalAdmin,
	)

	return &models.PortalFolders{
		Folders:       visible,
		UserRole:      claims.Role,
		IsPortalAdmin: access.IsPortalAdmin,
	}, nil
}

// GetFolderDetails resolves one folder and its viewable children
func (r *permissionResolver) GetFolderDetails(ctx context.Context, folderID string, claims *models.Claims) (*models.FolderDetails, error) {
	if claims == nil || claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing identity", domain.ErrUnauthorized)
	}
	if folderID == "" {
		return nil, fmt.Errorf("%w: folder ID is required", domain.ErrValidation)
	}

	folder, err := r.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	access, err := r.accessContext(ctx, folder.PortalID, claims)
	if err != nil {
		return nil, err
	}

	self := access.Access(*folder)
	if !self.CanView {
		r.logger.Info("folder access denied",
			"folder_id", folderID,
			"user_id", claims.UserID,
		)
		return nil, fmt.Errorf("%w: cannot view folder %s", domain.ErrForbidden, folderID)
	}

	children, err := r.folderRepo.ListChildren(ctx, folderID)
	if err != nil {
		return nil, err
	}

	return &models.FolderDetails{
		Folder:        self,
		Children:      access.Visible(children),
		UserRole:      claims.Role,
		IsPortalAdmin: access.IsPortalAdmin,
	}, nil
}

func (r *permissionResolver) accessContext(ctx context.Context, portalID string, claims *models.Claims) (AccessContext, error) {
	grants, err := r.permRepo.ListByUserInPortal(ctx, claims.UserID, portalID)
	if err != nil {
		return AccessContext{}, err
	}

	isAdmin, err := r.portalRepo.IsPortalAdmin(ctx, portalID, claims.UserID)
	if err != nil {
		return AccessContext{}, err
	}

	return AccessContext{
		Role:          claims.Role,
		IsPortalAdmin: isAdmin,
		Grants:        grants,
	}, nil
}
