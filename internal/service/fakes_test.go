package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/domain/repositories"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// passthroughTx runs fn directly; the fakes have no rollback.
type passthroughTx struct{}

func (passthroughTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	mu      sync.Mutex
	byName  map[string]*models.User
	updates int
	err     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byName: make(map[string]*models.User)}
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byName[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.byName[username]
	return ok, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	for _, u := range r.byName {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.byName[user.Username]; ok {
		return domain.NewConflictError("username")
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	cp := *user
	r.byName[user.Username] = &cp
	return nil
}

func (r *fakeUserRepo) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byName {
		if u.ID == userID {
			u.PasswordHash = hash
			r.updates++
			return nil
		}
	}
	return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
}

func (r *fakeUserRepo) put(u *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.byName[u.Username] = &cp
}

type fakeFolderRepo struct {
	folders []models.Folder
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	folder.ID = uuid.NewString()
	r.folders = append(r.folders, *folder)
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id string) (*models.Folder, error) {
	for _, f := range r.folders {
		if f.ID == id {
			cp := f
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
}

func (r *fakeFolderRepo) ListByPortal(_ context.Context, portalID string) ([]models.Folder, error) {
	out := []models.Folder{}
	for _, f := range r.folders {
		if f.PortalID == portalID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) ListChildren(_ context.Context, folderID string) ([]models.Folder, error) {
	out := []models.Folder{}
	for _, f := range r.folders {
		if f.ParentID != nil && *f.ParentID == folderID {
			out = append(out, f)
		}
	}
	return out, nil
}

type fakePermissionRepo struct {
	perms []models.FolderPermission
	// folderPortal maps folder ID to portal ID for portal scoping
	folderPortal map[string]string
}

func (r *fakePermissionRepo) ListByUserInPortal(_ context.Context, userID, portalID string) (map[string]models.FolderPermission, error) {
	out := make(map[string]models.FolderPermission)
	for _, p := range r.perms {
		if p.UserID == userID && r.folderPortal[p.FolderID] == portalID {
			out[p.FolderID] = p
		}
	}
	return out, nil
}

func (r *fakePermissionRepo) Upsert(_ context.Context, perm *models.FolderPermission) error {
	for i, p := range r.perms {
		if p.UserID == perm.UserID && p.FolderID == perm.FolderID {
			r.perms[i] = *perm
			return nil
		}
	}
	r.perms = append(r.perms, *perm)
	return nil
}

type fakePortalRepo struct {
	mu      sync.Mutex
	portals map[string]*models.Portal
	admins  map[[2]string]bool
	lookups int
}

func newFakePortalRepo() *fakePortalRepo {
	return &fakePortalRepo{
		portals: make(map[string]*models.Portal),
		admins:  make(map[[2]string]bool),
	}
}

func (r *fakePortalRepo) GetActiveByName(_ context.Context, name string) (*models.Portal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	p, ok := r.portals[name]
	if !ok || !p.IsActive {
		return nil, fmt.Errorf("portal %q: %w", name, domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *fakePortalRepo) Create(_ context.Context, portal *models.Portal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if portal.ID == "" {
		portal.ID = uuid.NewString()
	}
	cp := *portal
	r.portals[portal.Name] = &cp
	return nil
}

func (r *fakePortalRepo) IsPortalAdmin(_ context.Context, portalID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admins[[2]string{portalID, userID}], nil
}

func (r *fakePortalRepo) AddAdmin(_ context.Context, admin *models.PortalAdmin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins[[2]string{admin.PortalID, admin.UserID}] = true
	return nil
}
