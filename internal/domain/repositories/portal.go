package repositories

import (
	"context"

	"portal/internal/domain/models"
)

// PortalRepository defines read access to portals plus the admin membership table
type PortalRepository interface {
	// GetActiveByName returns the active portal with the given slug.
	// Returns domain.ErrNotFound if absent or inactive
	GetActiveByName(ctx context.Context, name string) (*models.Portal, error)

	// Create inserts a portal (seeding only)
	Create(ctx context.Context, portal *models.Portal) error

	// IsPortalAdmin reports whether a PortalAdmin row exists for (portalID, userID)
	IsPortalAdmin(ctx context.Context, portalID, userID string) (bool, error)

	// AddAdmin records portal admin membership; idempotent
	AddAdmin(ctx context.Context, admin *models.PortalAdmin) error
}
