package service

import (
	"context"
	"errors"
	"testing"

	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/domain/services"
)

const (
	testPortal      = "11111111-1111-4111-8111-111111111111"
	otherPortal     = "22222222-2222-4222-8222-222222222222"
	testUser        = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	folderGranted   = "f0000000-0000-4000-8000-000000000001"
	folderAdminOnly = "f0000000-0000-4000-8000-000000000002"
	folderHidden    = "f0000000-0000-4000-8000-000000000003"
	folderUniversal = "f0000000-0000-4000-8000-000000000004"
	folderChild     = "f0000000-0000-4000-8000-000000000005"
	folderElsewhere = "f0000000-0000-4000-8000-000000000006"
)

func strPtr(s string) *string { return &s }

type resolverFixture struct {
	resolver services.PermissionResolver
	folders  *fakeFolderRepo
	perms    *fakePermissionRepo
	portals  *fakePortalRepo
}

func newResolverFixture() *resolverFixture {
	folders := &fakeFolderRepo{folders: []models.Folder{
		{ID: folderGranted, PortalID: testPortal, Name: "F1"},
		{ID: folderAdminOnly, PortalID: testPortal, Name: "F2"},
		{ID: folderHidden, PortalID: testPortal, Name: "F3"},
	}}
	perms := &fakePermissionRepo{
		perms: []models.FolderPermission{
			{UserID: testUser, FolderID: folderGranted, CanEdit: true, CanView: true},
		},
		folderPortal: map[string]string{
			folderGranted:   testPortal,
			folderAdminOnly: testPortal,
			folderHidden:    testPortal,
			folderUniversal: testPortal,
			folderChild:     testPortal,
			folderElsewhere: otherPortal,
		},
	}
	portals := newFakePortalRepo()

	return &resolverFixture{
		resolver: NewPermissionResolver(folders, perms, portals, discardLogger()),
		folders:  folders,
		perms:    perms,
		portals:  portals,
	}
}

func claimsFor(role models.Role) *models.Claims {
	return &models.Claims{UserID: testUser, Username: "user", Email: "user@example.com", Role: role}
}

func byID(folders []models.FolderAccess) map[string]models.FolderAccess {
	out := make(map[string]models.FolderAccess, len(folders))
	for _, f := range folders {
		out[f.ID] = f
	}
	return out
}

// F1 has an explicit edit grant, F2 is reachable only through portal admin
// membership, F3 has nothing.
func TestResolveGrantAndAdmin(t *testing.T) {
	f := newResolverFixture()
	ctx := context.Background()

	// Admin membership for a different user must not leak
	_ = f.portals.AddAdmin(ctx, &models.PortalAdmin{PortalID: testPortal, UserID: "someone-else"})

	res, err := f.resolver.ResolveFolderPermissions(ctx, testPortal, claimsFor(models.RoleUser))
	if err != nil {
		t.Fatalf("ResolveFolderPermissions: %v", err)
	}
	got := byID(res.Folders)
	if len(got) != 1 || !got[folderGranted].CanEdit {
		t.Fatalf("non-admin folders = %+v, want only F1 with canEdit", res.Folders)
	}
	if res.IsPortalAdmin {
		t.Error("isPortalAdmin = true for non-admin")
	}

	_ = f.portals.AddAdmin(ctx, &models.PortalAdmin{PortalID: testPortal, UserID: testUser})

	res, err = f.resolver.ResolveFolderPermissions(ctx, testPortal, claimsFor(models.RoleUser))
	if err != nil {
		t.Fatalf("ResolveFolderPermissions: %v", err)
	}
	if !res.IsPortalAdmin {
		t.Error("isPortalAdmin = false for portal admin")
	}
	if res.UserRole != models.RoleUser {
		t.Errorf("userRole = %q, want %q", res.UserRole, models.RoleUser)
	}
	got = byID(res.Folders)
	for _, id := range []string{folderGranted, folderAdminOnly, folderHidden} {
		if a, ok := got[id]; !ok || !a.CanEdit || !a.CanView {
			t.Errorf("admin access to %s = %+v, want edit and view", id, a)
		}
	}
}

func TestResolveHidesUngrantedFolders(t *testing.T) {
	f := newResolverFixture()
	f.perms.perms = append(f.perms.perms,
		models.FolderPermission{UserID: testUser, FolderID: folderAdminOnly, CanEdit: false, CanView: true},
	)

	res, err := f.resolver.ResolveFolderPermissions(context.Background(), testPortal, claimsFor(models.RoleUser))
	if err != nil {
		t.Fatalf("ResolveFolderPermissions: %v", err)
	}

	got := byID(res.Folders)
	if _, ok := got[folderHidden]; ok {
		t.Error("folder without grant was returned")
	}
	if a := got[folderAdminOnly]; !a.CanView || a.CanEdit {
		t.Errorf("view-only grant = %+v, want canView only", a)
	}
	for _, a := range res.Folders {
		if !a.CanView {
			t.Errorf("returned folder %s has canView=false", a.ID)
		}
	}
}

func TestResolveSuperSeesEverything(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *resolverFixture)
	}{
		{"no grants", func(f *resolverFixture) { f.perms.perms = nil }},
		{"restrictive grant", func(f *resolverFixture) {
			f.perms.perms = []models.FolderPermission{{UserID: testUser, FolderID: folderHidden}}
		}},
		{"also portal admin", func(f *resolverFixture) {
			_ = f.portals.AddAdmin(context.Background(), &models.PortalAdmin{PortalID: testPortal, UserID: testUser})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newResolverFixture()
			tt.setup(f)

			res, err := f.resolver.ResolveFolderPermissions(context.Background(), testPortal, claimsFor(models.RoleSuper))
			if err != nil {
				t.Fatalf("ResolveFolderPermissions: %v", err)
			}
			if len(res.Folders) != 3 {
				t.Fatalf("super got %d folders, want 3", len(res.Folders))
			}
			for _, a := range res.Folders {
				if !a.CanEdit || !a.CanView {
					t.Errorf("super access to %s = %+v", a.ID, a)
				}
			}
		})
	}
}

func TestResolveUniversalFolders(t *testing.T) {
	f := newResolverFixture()
	f.folders.folders = append(f.folders.folders,
		models.Folder{ID: folderUniversal, PortalID: testPortal, Name: "Shared", IsUniversal: true},
	)

	res, err := f.resolver.ResolveFolderPermissions(context.Background(), testPortal, claimsFor(models.RoleUser))
	if err != nil {
		t.Fatalf("ResolveFolderPermissions: %v", err)
	}

	a, ok := byID(res.Folders)[folderUniversal]
	if !ok {
		t.Fatal("universal folder not visible to authenticated user")
	}
	if a.CanEdit {
		t.Error("universal folder granted edit")
	}
}

func TestResolveScopesGrantsToPortal(t *testing.T) {
	f := newResolverFixture()
	f.folders.folders = append(f.folders.folders,
		models.Folder{ID: folderElsewhere, PortalID: otherPortal, Name: "Other"},
	)
	f.perms.perms = append(f.perms.perms,
		models.FolderPermission{UserID: testUser, FolderID: folderElsewhere, CanEdit: true, CanView: true},
	)

	res, err := f.resolver.ResolveFolderPermissions(context.Background(), testPortal, claimsFor(models.RoleUser))
	if err != nil {
		t.Fatalf("ResolveFolderPermissions: %v", err)
	}
	if _, ok := byID(res.Folders)[folderElsewhere]; ok {
		t.Error("folder from another portal returned")
	}
}

func TestResolveRequiresIdentity(t *testing.T) {
	f := newResolverFixture()
	ctx := context.Background()

	if _, err := f.resolver.ResolveFolderPermissions(ctx, testPortal, nil); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("nil claims: err = %v, want ErrUnauthorized", err)
	}
	if _, err := f.resolver.ResolveFolderPermissions(ctx, testPortal, &models.Claims{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("empty claims: err = %v, want ErrUnauthorized", err)
	}
	if _, err := f.resolver.ResolveFolderPermissions(ctx, "", claimsFor(models.RoleUser)); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty portal: err = %v, want ErrValidation", err)
	}
}

func TestResolveEmptyPortal(t *testing.T) {
	f := newResolverFixture()

	res, err := f.resolver.ResolveFolderPermissions(context.Background(), otherPortal, claimsFor(models.RoleUser))
	if err != nil {
		t.Fatalf("ResolveFolderPermissions: %v", err)
	}
	if res.Folders == nil || len(res.Folders) != 0 {
		t.Errorf("folders = %#v, want empty non-nil slice", res.Folders)
	}
}

func TestGetFolderDetails(t *testing.T) {
	f := newResolverFixture()
	f.folders.folders = append(f.folders.folders,
		models.Folder{ID: folderChild, PortalID: testPortal, ParentID: strPtr(folderGranted), Name: "child-hidden"},
		models.Folder{ID: folderUniversal, PortalID: testPortal, ParentID: strPtr(folderGranted), Name: "child-universal", IsUniversal: true},
	)
	ctx := context.Background()

	details, err := f.resolver.GetFolderDetails(ctx, folderGranted, claimsFor(models.RoleUser))
	if err != nil {
		t.Fatalf("GetFolderDetails: %v", err)
	}
	if details.Folder.ID != folderGranted || !details.Folder.CanEdit {
		t.Errorf("folder = %+v, want F1 with edit", details.Folder)
	}
	if len(details.Children) != 1 || details.Children[0].ID != folderUniversal {
		t.Errorf("children = %+v, want only the universal child", details.Children)
	}

	tests := []struct {
		name     string
		folderID string
		claims   *models.Claims
		wantErr  error
	}{
		{"no grant", folderHidden, claimsFor(models.RoleUser), domain.ErrForbidden},
		{"absent", "f0000000-0000-4000-8000-0000000000ff", claimsFor(models.RoleUser), domain.ErrNotFound},
		{"empty id", "", claimsFor(models.RoleUser), domain.ErrValidation},
		{"no identity", folderGranted, nil, domain.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.resolver.GetFolderDetails(ctx, tt.folderID, tt.claims)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	details, err = f.resolver.GetFolderDetails(ctx, folderHidden, claimsFor(models.RoleSuper))
	if err != nil {
		t.Fatalf("super GetFolderDetails: %v", err)
	}
	if !details.Folder.CanEdit {
		t.Error("super cannot edit hidden folder")
	}
}

func TestAccessContext(t *testing.T) {
	folder := models.Folder{ID: folderGranted}
	universal := models.Folder{ID: folderUniversal, IsUniversal: true}

	tests := []struct {
		name     string
		ctx      AccessContext
		folder   models.Folder
		wantEdit bool
		wantView bool
	}{
		{"nothing", AccessContext{Role: models.RoleUser}, folder, false, false},
		{"edit grant without view", AccessContext{Role: models.RoleUser, Grants: map[string]models.FolderPermission{
			folderGranted: {CanEdit: true},
		}}, folder, true, false},
		{"global admin role is not portal admin", AccessContext{Role: models.RoleAdmin}, folder, false, false},
		{"portal admin", AccessContext{Role: models.RoleUser, IsPortalAdmin: true}, folder, true, true},
		{"super", AccessContext{Role: models.RoleSuper}, folder, true, true},
		{"universal", AccessContext{Role: models.RoleUser}, universal, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ctx.Access(tt.folder)
			if got.CanEdit != tt.wantEdit || got.CanView != tt.wantView {
				t.Errorf("Access = edit:%v view:%v, want edit:%v view:%v",
					got.CanEdit, got.CanView, tt.wantEdit, tt.wantView)
			}
		})
	}
}
