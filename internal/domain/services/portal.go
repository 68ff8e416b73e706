package services

import (
	"context"

	"portal/internal/domain/models"
)

// PortalService looks up portals by their public slug
type PortalService interface {
	// GetPortalInfo returns the active portal named name.
	// Returns domain.ErrValidation for an empty name and domain.ErrNotFound otherwise
	GetPortalInfo(ctx context.Context, name string) (*models.Portal, error)
}
