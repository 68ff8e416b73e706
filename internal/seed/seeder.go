package seed

import (
	"context"
	"fmt"
	"log/slog"

	"portal/internal/auth"
	"portal/internal/domain/models"
	"portal/internal/domain/repositories"
)

// Seeder writes a Fixture through the repositories in one transaction
type Seeder struct {
	users     repositories.UserRepository
	portals   repositories.PortalRepository
	folders   repositories.FolderRepository
	perms     repositories.FolderPermissionRepository
	txManager repositories.TransactionManager
	hasher    auth.PasswordHasher
	logger    *slog.Logger
}

// Summary counts the rows a seed run created
type Summary struct {
	Users   int
	Portals int
	Folders int
	Admins  int
	Grants  int
}

// NewSeeder creates a new seeder
func NewSeeder(
	users repositories.UserRepository,
	portals repositories.PortalRepository,
	folders repositories.FolderRepository,
	perms repositories.FolderPermissionRepository,
	txManager repositories.TransactionManager,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		users:     users,
		portals:   portals,
		folders:   folders,
		perms:     perms,
		txManager: txManager,
		hasher:    hasher,
		logger:    logger,
	}
}

// Apply creates everything in fx. Either the whole fixture is written or nothing is.
func (s *Seeder) Apply(ctx context.Context, fx *Fixture) (*Summary, error) {
	if err := fx.Validate(); err != nil {
		return nil, err
	}

	// Hash outside the transaction; bcrypt is slow on purpose
	hashes := make(map[string]string, len(fx.Users))
	for _, u := range fx.Users {
		if u.PasswordHash != "" {
			hashes[u.Username] = u.PasswordHash
			continue
		}
		hash, err := s.hasher.Hash(u.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", u.Username, err)
		}
		hashes[u.Username] = hash
	}

	var sum Summary
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		sum = Summary{}

		userIDs := make(map[string]string, len(fx.Users))
		for _, u := range fx.Users {
			role := u.Role
			if role == "" {
				role = models.RoleUser
			}
			user := &models.User{
				Username:     u.Username,
				Email:        u.Email,
				PasswordHash: hashes[u.Username],
				Role:         role,
			}
			if err := s.users.Create(txCtx, user); err != nil {
				return fmt.Errorf("create user %q: %w", u.Username, err)
			}
			userIDs[u.Username] = user.ID
			sum.Users++
		}

		// folderIDs is keyed by portal name, then folder name
		folderIDs := make(map[string]map[string]string, len(fx.Portals))
		for _, p := range fx.Portals {
			portal := &models.Portal{
				Name:        p.Name,
				DisplayName: p.DisplayName,
				Description: optional(p.Description),
				LogoURL:     optional(p.LogoURL),
				BannerURL:   optional(p.BannerURL),
				IsActive:    !p.Inactive,
			}
			if err := s.portals.Create(txCtx, portal); err != nil {
				return fmt.Errorf("create portal %q: %w", p.Name, err)
			}
			sum.Portals++

			for _, admin := range p.Admins {
				if err := s.portals.AddAdmin(txCtx, &models.PortalAdmin{PortalID: portal.ID, UserID: userIDs[admin]}); err != nil {
					return fmt.Errorf("add admin %q to %q: %w", admin, p.Name, err)
				}
				sum.Admins++
			}

			ids := make(map[string]string, len(p.Folders))
			for _, f := range p.Folders {
				folder := &models.Folder{
					PortalID:    portal.ID,
					Name:        f.Name,
					Description: optional(f.Description),
					IsUniversal: f.Universal,
				}
				if f.Parent != "" {
					parentID := ids[f.Parent]
					folder.ParentID = &parentID
				}
				if err := s.folders.Create(txCtx, folder); err != nil {
					return fmt.Errorf("create folder %q in %q: %w", f.Name, p.Name, err)
				}
				ids[f.Name] = folder.ID
				sum.Folders++
			}
			folderIDs[p.Name] = ids
		}

		for _, g := range fx.Grants {
			perm := &models.FolderPermission{
				UserID:   userIDs[g.User],
				FolderID: folderIDs[g.Portal][g.Folder],
				CanEdit:  g.Edit,
				CanView:  g.View,
			}
			if err := s.perms.Upsert(txCtx, perm); err != nil {
				return fmt.Errorf("grant %q on %s/%s: %w", g.User, g.Portal, g.Folder, err)
			}
			sum.Grants++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fixture applied",
		"users", sum.Users,
		"portals", sum.Portals,
		"folders", sum.Folders,
		"admins", sum.Admins,
		"grants", sum.Grants,
	)
	return &sum, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
