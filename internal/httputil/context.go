package httputil

import (
	"context"
	"net/http"

	"portal/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	claimsKey    contextKey = "claims"
	authErrorKey contextKey = "authError"
)

// WithClaims adds verified token claims to the request context
func WithClaims(r *http.Request, claims *models.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), claimsKey, claims)
	return r.WithContext(ctx)
}

// GetClaims retrieves verified claims from context, nil if the request is anonymous
func GetClaims(r *http.Request) *models.Claims {
	claims, _ := r.Context().Value(claimsKey).(*models.Claims)
	return claims
}

// GetUserID retrieves the caller's user ID, returns empty string if not found
func GetUserID(r *http.Request) string {
	if claims := GetClaims(r); claims != nil {
		return claims.UserID
	}
	return ""
}

// WithAuthError records why a presented bearer token was rejected
func WithAuthError(r *http.Request, err error) *http.Request {
	ctx := context.WithValue(r.Context(), authErrorKey, err)
	return r.WithContext(ctx)
}

// GetAuthError returns the token rejection recorded for this request, if any
func GetAuthError(r *http.Request) error {
	err, _ := r.Context().Value(authErrorKey).(error)
	return err
}
