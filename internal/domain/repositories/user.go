package repositories

import (
	"context"

	"portal/internal/domain/models"
)

// UserRepository is the credential store.
type UserRepository interface {
	// GetByUsername looks a user up by exact username.
	// Returns domain.ErrNotFound if absent
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// ExistsByUsername reports whether the username is taken
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether the email is taken
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts a user. A uniqueness violation is returned as *domain.ConflictError
	// naming the offending field
	Create(ctx context.Context, user *models.User) error

	// UpdatePasswordHash replaces the stored hash (used for hash upgrades)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}
