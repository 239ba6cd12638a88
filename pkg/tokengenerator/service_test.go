package tokengenerator

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(opts ...JwtServiceOption) *JwtService {
	return NewJwtService(NewJwtTokenGenerator("test-secret", "simple-auth", "simple-auth"), opts...)
}

func TestGenerateTokens(t *testing.T) {
	svc := newTestService()

	pair, err := svc.GenerateTokens("user-123", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken.Token)
	assert.NotEmpty(t, pair.RefreshToken.Token)
	assert.NotEqual(t, pair.AccessToken.Token, pair.RefreshToken.Token)
	assert.True(t, pair.RefreshToken.Expiry.After(pair.AccessToken.Expiry))

	subject, err := svc.ParseToken(pair.AccessToken.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestGenerateTokensExtraClaims(t *testing.T) {
	gen := NewJwtTokenGenerator("test-secret", "simple-auth", "simple-auth")

	tokenStr, expiry, err := gen.GenerateToken("user-123", time.Minute, map[string]interface{}{"role": "admin"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiry, 5*time.Second)

	parsed, err := gen.ParseToken(tokenStr)
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	extra, ok := claims["extra_claims"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "admin", extra["role"])
	assert.Equal(t, "user-123", claims["sub"])
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestService()
	other := NewJwtService(NewJwtTokenGenerator("another-secret", "simple-auth", "simple-auth"))

	pair, err := svc.GenerateTokens("user-123", nil)
	require.NoError(t, err)

	_, err = other.ParseToken(pair.AccessToken.Token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc := newTestService(WithAccessTokenExpiry(-time.Minute))

	pair, err := svc.GenerateTokens("user-123", nil)
	require.NoError(t, err)

	_, err = svc.ParseToken(pair.AccessToken.Token)
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongAlgorithm(t *testing.T) {
	svc := newTestService()

	// an unsigned token must not pass
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-123"})
	tokenStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ParseToken(tokenStr)
	assert.Error(t, err)
}
