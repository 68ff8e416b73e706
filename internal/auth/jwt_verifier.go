package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"portal/internal/domain"
	"portal/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is fixed; it is not configurable per token.
const TokenLifetime = 24 * time.Hour

// TokenCodec issues and verifies HS256 tokens with a shared secret.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
	logger *slog.Logger
}

// NewTokenCodec creates a codec for the given shared secret.
func NewTokenCodec(secret []byte, logger *slog.Logger) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret cannot be empty")
	}

	return &TokenCodec{
		secret: secret,
		now:    time.Now,
		logger: logger,
	}, nil
}

// WithClock returns a copy of the codec that reads time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

// Encode signs claims with iat set to now and exp one TokenLifetime later.
func (c *TokenCodec) Encode(claims *models.Claims) (string, error) {
	if claims == nil {
		return "", errors.New("claims cannot be nil")
	}

	issuedAt := c.now().Truncate(time.Second)
	stamped := *claims
	stamped.IssuedAt = jwt.NewNumericDate(issuedAt)
	stamped.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(TokenLifetime))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &stamped)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a token and extracts its claims.
// HMAC signatures are compared in constant time by the jwt library.
func (c *TokenCodec) Verify(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return c.secret, nil },
		// Prevent algorithm confusion attacks - allow only HS256
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		c.logger.Debug("token rejected", "error", err.Error())
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, reason(err))
	}

	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	if claims.UserID == "" {
		c.logger.Debug("token missing userId claim")
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	return claims, nil
}

// Decode extracts claims WITHOUT checking the signature or expiry.
// Use it only to display identity on the client side; never to authorize.
func Decode(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, reason(err))
	}
	return claims, nil
}

// reason reduces jwt errors to a short client-safe message.
func reason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed token"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "invalid signature"
	default:
		return "invalid token"
	}
}
