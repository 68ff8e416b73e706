package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes new passwords and checks candidates against stored hashes.
type PasswordHasher interface {
	// Hash returns the encoded hash to persist.
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. needsRehash is true when
	// the hash was produced by a weaker scheme than the one Hash uses.
	Verify(hash, password string) (ok bool, needsRehash bool)
}

// BcryptHasher stores bcrypt hashes and still accepts legacy SHA-256 hashes
// written by the previous system.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher; cost 0 selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(hash, password string) (bool, bool) {
	if !isBcryptHash(hash) {
		return verifyLegacy(hash, password), true
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return false, false
	}

	cost, err := bcrypt.Cost([]byte(hash))
	return true, err == nil && cost < h.cost
}

// LegacySHA256Hasher reproduces the old scheme byte for byte:
// base64(SHA-256(password)), unsalted, single round. It is weak against
// offline attacks and exists only for deployments that must keep hashes
// readable by the previous functions.
type LegacySHA256Hasher struct{}

func (LegacySHA256Hasher) Hash(password string) (string, error) {
	return LegacyHash(password), nil
}

func (LegacySHA256Hasher) Verify(hash, password string) (bool, bool) {
	if isBcryptHash(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, false
	}
	return verifyLegacy(hash, password), false
}

// LegacyHash computes base64(SHA-256(utf8(password))) with standard padding.
func LegacyHash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// NewPasswordHasher selects the hasher for a configured scheme name.
func NewPasswordHasher(scheme string) (PasswordHasher, error) {
	switch scheme {
	case "", "bcrypt":
		return NewBcryptHasher(0), nil
	case "legacy-sha256":
		return LegacySHA256Hasher{}, nil
	default:
		return nil, errors.New("unknown password scheme: " + scheme)
	}
}

func verifyLegacy(hash, password string) bool {
	return subtle.ConstantTimeCompare([]byte(hash), []byte(LegacyHash(password))) == 1
}

func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}
