package singleuse

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// Generator produces a new opaque token value.
type Generator func() (string, error)

// NewHexTokenGenerator returns a Generator producing lowercase hex tokens
// from byteLen cryptographically random bytes (2*byteLen characters).
func NewHexTokenGenerator(byteLen int) Generator {
	return func() (string, error) {
		b := make([]byte, byteLen)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}
		return hex.EncodeToString(b), nil
	}
}

// NewNumericCodeGenerator returns a Generator producing fixed-length
// numeric codes, e.g. "493028" for length 6. Each digit is drawn from
// crypto/rand, so leading zeros are possible and preserved.
func NewNumericCodeGenerator(length int) Generator {
	return func() (string, error) {
		var sb strings.Builder
		sb.Grow(length)
		for i := 0; i < length; i++ {
			n, err := rand.Int(rand.Reader, big.NewInt(10))
			if err != nil {
				return "", fmt.Errorf("failed to generate code: %w", err)
			}
			sb.WriteByte(byte('0' + n.Int64()))
		}
		return sb.String(), nil
	}
}
