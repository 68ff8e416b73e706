package auth

import "portal/internal/domain/models"

// TokenIssuer signs claims into a compact token.
type TokenIssuer interface {
	// Encode stamps iat/exp onto a copy of claims and returns the signed token.
	Encode(claims *models.Claims) (string, error)
}

// TokenVerifier defines the interface for token verification.
// This abstraction keeps the middleware agnostic to the verification details.
type TokenVerifier interface {
	// Verify checks the signature and expiry and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is malformed, tampered with or expired.
	Verify(tokenString string) (*models.Claims, error)
}
