package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"portal/internal/auth"
	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/domain/services"
)

var alice = models.PublicUser{
	ID:       "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa",
	Username: "alice",
	Email:    "alice@example.com",
	Role:     models.RoleUser,
}

// fakeAPI serves the subset of the portal API the client uses
type fakeAPI struct {
	codec         *auth.TokenCodec
	sessionCalls  int
	revokedTokens map[string]bool
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()

	codec, err := auth.NewTokenCodec([]byte("client-test-secret"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	api := &fakeAPI{codec: codec, revokedTokens: map[string]bool{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth-login", api.login)
	mux.HandleFunc("GET /auth-session", api.session)
	mux.HandleFunc("GET /portal-api/getPortalInfo", api.portalInfo)
	mux.HandleFunc("GET /portal-api/getPortalFolders", api.portalFolders)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api, srv
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *fakeAPI) issue() string {
	token, _ := a.codec.Encode(&models.Claims{UserID: alice.ID, Username: alice.Username, Email: alice.Email, Role: alice.Role})
	return token
}

func (a *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	switch {
	case req.Username != "alice":
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Username not found"})
	case req.Password != "pw":
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid password"})
	default:
		writeJSON(w, http.StatusOK, services.AuthResult{Token: a.issue(), User: alice})
	}
}

func (a *fakeAPI) verify(r *http.Request) (*models.Claims, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if a.revokedTokens[token] {
		return nil, false
	}
	claims, err := a.codec.Verify(token)
	return claims, err == nil
}

func (a *fakeAPI) session(w http.ResponseWriter, r *http.Request) {
	a.sessionCalls++
	claims, ok := a.verify(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		return
	}
	writeJSON(w, http.StatusOK, SessionInfo{User: claims.PublicUser(), ExpiresAt: claims.ExpiresAt.Time})
}

func (a *fakeAPI) portalInfo(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("portalName") != "acme" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Portal not found"})
		return
	}
	writeJSON(w, http.StatusOK, models.Portal{ID: "p1", Name: "acme", DisplayName: "Acme", IsActive: true})
}

func (a *fakeAPI) portalFolders(w http.ResponseWriter, r *http.Request) {
	claims, ok := a.verify(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, models.PortalFolders{
		Folders:  []models.FolderAccess{{Folder: models.Folder{ID: "f1", Name: "Reports"}, CanView: true}},
		UserRole: claims.Role,
	})
}

func TestClientErrors(t *testing.T) {
	_, srv := newFakeAPI(t)
	c := New(srv.URL + "/")
	ctx := context.Background()

	tests := []struct {
		name        string
		call        func() error
		wantStatus  int
		wantMessage string
		wantIs      error
	}{
		{
			name:        "unknown user uses message field",
			call:        func() error { _, err := c.Login(ctx, "bob", "pw"); return err },
			wantStatus:  404,
			wantMessage: "Username not found",
			wantIs:      domain.ErrNotFound,
		},
		{
			name:        "wrong password",
			call:        func() error { _, err := c.Login(ctx, "alice", "nope"); return err },
			wantStatus:  401,
			wantMessage: "Invalid password",
			wantIs:      domain.ErrUnauthorized,
		},
		{
			name:        "portal not found",
			call:        func() error { _, err := c.PortalInfo(ctx, "globex"); return err },
			wantStatus:  404,
			wantMessage: "Portal not found",
			wantIs:      domain.ErrNotFound,
		},
		{
			name:        "folders without token",
			call:        func() error { _, err := c.PortalFolders(ctx, "", "p1"); return err },
			wantStatus:  401,
			wantMessage: "Unauthorized",
			wantIs:      domain.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError", err)
			}
			if apiErr.Status != tt.wantStatus || apiErr.Message != tt.wantMessage {
				t.Errorf("APIError = %+v, want %d %q", apiErr, tt.wantStatus, tt.wantMessage)
			}
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(%v) = false", tt.wantIs)
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := New(srv.URL)
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "portal", "session"))

	// Fresh start: nothing stored
	s := NewSession(c, store)
	active, err := s.Init(ctx)
	if err != nil || active {
		t.Fatalf("Init on empty store = %v, %v", active, err)
	}
	if _, err := s.Token(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Token before login: err = %v", err)
	}

	user, err := s.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if *user != alice {
		t.Errorf("user = %+v", user)
	}
	if s.ExpiresAt().Before(time.Now().Add(23 * time.Hour)) {
		t.Errorf("expiresAt = %v, want about 24h ahead", s.ExpiresAt())
	}

	token, err := s.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	folders, err := c.PortalFolders(ctx, token, "p1")
	if err != nil {
		t.Fatalf("PortalFolders: %v", err)
	}
	if len(folders.Folders) != 1 || folders.UserRole != models.RoleUser {
		t.Errorf("folders = %+v", folders)
	}

	// A new process restores the session from the store
	restored := NewSession(c, store)
	active, err = restored.Init(ctx)
	if err != nil || !active {
		t.Fatalf("Init after login = %v, %v", active, err)
	}
	if restored.User() == nil || restored.User().ID != alice.ID {
		t.Errorf("restored user = %+v", restored.User())
	}

	// Server-side rejection clears the stored token
	api.revokedTokens[token] = true
	rejected := NewSession(c, store)
	active, err = rejected.Init(ctx)
	if err != nil || active {
		t.Fatalf("Init with revoked token = %v, %v", active, err)
	}
	if stored, _ := store.Load(); stored != "" {
		t.Errorf("revoked token still stored: %q", stored)
	}

	if _, err := s.Login(ctx, "alice", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.User() != nil {
		t.Error("user still set after logout")
	}
	if stored, _ := store.Load(); stored != "" {
		t.Errorf("token still stored after logout: %q", stored)
	}
}

func TestSessionInitDropsExpiredTokenLocally(t *testing.T) {
	api, srv := newFakeAPI(t)

	expired, err := api.codec.WithClock(func() time.Time {
		return time.Now().Add(-25 * time.Hour)
	}).Encode(&models.Claims{UserID: alice.ID})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"garbage", "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MemoryStore{}
			_ = store.Save(tt.token)
			calls := api.sessionCalls

			active, err := NewSession(New(srv.URL), store).Init(context.Background())
			if err != nil || active {
				t.Fatalf("Init = %v, %v", active, err)
			}
			if api.sessionCalls != calls {
				t.Error("dead token was sent to the server")
			}
			if stored, _ := store.Load(); stored != "" {
				t.Errorf("token not cleared: %q", stored)
			}
		})
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent"))

	token, err := store.Load()
	if err != nil || token != "" {
		t.Errorf("Load = %q, %v", token, err)
	}
	if err := store.Clear(); err != nil {
		t.Errorf("Clear on missing file: %v", err)
	}
}
