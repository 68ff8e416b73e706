package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"portal/internal/auth"
	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/domain/services"
)

// ErrNoSession is returned when an operation needs a signed-in user
var ErrNoSession = errors.New("not logged in")

// Session is the consumer-side login state: a token, the user it belongs to
// and when it expires. Nothing here is trusted for authorization; every
// protected call is re-checked by the server.
type Session struct {
	client *Client
	store  SessionStore
	now    func() time.Time

	mu        sync.RWMutex
	token     string
	user      *models.PublicUser
	expiresAt time.Time
}

// NewSession creates an empty session; call Init to restore a stored one
func NewSession(client *Client, store SessionStore) *Session {
	return &Session{
		client: client,
		store:  store,
		now:    time.Now,
	}
}

// Init restores a persisted token. Tokens that are unreadable, expired or
// rejected by the server are discarded. It returns whether a session is active.
func (s *Session) Init(ctx context.Context) (bool, error) {
	token, err := s.store.Load()
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}

	// Local decode is only a shortcut to skip a round trip for dead tokens
	claims, err := auth.Decode(token)
	if err != nil || claims.ExpiresAt == nil || !claims.ExpiresAt.After(s.now()) {
		return false, s.clear()
	}

	info, err := s.client.Session(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return false, s.clear()
		}
		return false, err
	}

	s.set(token, info.User, info.ExpiresAt)
	return true, nil
}

// Login authenticates and persists the new token
func (s *Session) Login(ctx context.Context, username, password string) (*models.PublicUser, error) {
	result, err := s.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.adopt(result)
}

// Signup creates an account and persists its token
func (s *Session) Signup(ctx context.Context, req *services.SignupRequest) (*models.PublicUser, error) {
	result, err := s.client.Signup(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.adopt(result)
}

// Logout forgets the token locally and in the store
func (s *Session) Logout() error {
	return s.clear()
}

// Token returns the bearer token or ErrNoSession
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoSession
	}
	return s.token, nil
}

// User returns the signed-in user, nil when logged out
func (s *Session) User() *models.PublicUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// ExpiresAt returns when the current token stops being accepted
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) adopt(result *services.AuthResult) (*models.PublicUser, error) {
	var expiresAt time.Time
	if claims, err := auth.Decode(result.Token); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.store.Save(result.Token); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.set(result.Token, result.User, expiresAt)
	user := result.User
	return &user, nil
}

func (s *Session) set(token string, user models.PublicUser, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
	s.expiresAt = expiresAt
}

func (s *Session) clear() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	return s.store.Clear()
}
