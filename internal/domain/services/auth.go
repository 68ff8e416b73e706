package services

import (
	"context"

	"portal/internal/domain/models"
)

// LoginRequest carries credentials for a login attempt
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest carries the fields of a new account.
// Role is optional and subject to the signup role policy.
type SignupRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role,omitempty"`
}

// AuthResult is returned by a successful login or signup
type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// AuthService validates credentials and creates accounts.
// It holds no state between calls; the credential store is the only state.
type AuthService interface {
	// Login returns domain.ErrValidation for empty fields, domain.ErrNotFound for an
	// unknown username and domain.ErrInvalidCredentials for a wrong password
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)

	// Signup returns domain.ErrValidation for missing fields and a *domain.ConflictError
	// naming "username" or "email" (username checked first)
	Signup(ctx context.Context, req *SignupRequest) (*AuthResult, error)
}
