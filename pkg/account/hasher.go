package account

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords. Compare must accept an
// absent (nil or empty) hash without erroring so that login against a
// non-existent user still pays the full comparison cost.
type PasswordHasher interface {
	Hash(plaintext string) ([]byte, error)
	Compare(plaintext string, hash []byte) bool
}

// BcryptHasher implements PasswordHasher with bcrypt. When the stored
// hash is absent it compares against a random placeholder hash generated
// at construction, which always fails but takes the same time.
type BcryptHasher struct {
	cost        int
	placeholder []byte
}

// NewBcryptHasher creates a BcryptHasher with the given cost. A cost of 0
// uses bcrypt.DefaultCost.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate placeholder secret: %w", err)
	}
	placeholder, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(buf)), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder hash: %w", err)
	}

	return &BcryptHasher{cost: cost, placeholder: placeholder}, nil
}

// Hash hashes the plaintext password.
func (h *BcryptHasher) Hash(plaintext string) ([]byte, error) {
	if plaintext == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}
	return bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
}

// Compare reports whether plaintext matches hash. An absent hash is
// substituted with the placeholder so the comparison latency does not
// reveal whether the account exists.
func (h *BcryptHasher) Compare(plaintext string, hash []byte) bool {
	if len(hash) == 0 {
		hash = h.placeholder
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}
