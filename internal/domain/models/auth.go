package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the payload carried by portal tokens.
// iat/exp come from the embedded registered claims.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// GetUserID returns the authenticated user's ID.
func (c *Claims) GetUserID() string {
	return c.UserID
}

// PublicUser builds the public view of the identity in the token.
func (c *Claims) PublicUser() PublicUser {
	return PublicUser{
		ID:       c.UserID,
		Username: c.Username,
		Email:    c.Email,
		Role:     c.Role,
	}
}
