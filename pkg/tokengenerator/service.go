package tokengenerator

import (
	"fmt"
	"time"
)

// Token type constants
const (
	AccessTokenName  = "access_token"
	RefreshTokenName = "refresh_token"
)

// Default token expiry durations
const (
	DefaultAccessTokenExpiry  = 15 * time.Minute
	DefaultRefreshTokenExpiry = 24 * time.Hour
)

// TokenValue is a signed token together with its expiry instant.
type TokenValue struct {
	Token  string
	Expiry time.Time
}

// TokenPair is the access/refresh pair issued on login and refresh. The
// access token is stateless; the refresh token is additionally persisted
// as a session row.
type TokenPair struct {
	AccessToken  TokenValue
	RefreshToken TokenValue
}

// TokenService issues access/refresh token pairs for a user id.
type TokenService interface {
	GenerateTokens(subject string, extraClaims map[string]interface{}) (TokenPair, error)
	ParseToken(tokenStr string) (string, error)
}

// JwtService implements TokenService on top of a TokenGenerator.
type JwtService struct {
	generator          TokenGenerator
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// JwtServiceOption configures a JwtService.
type JwtServiceOption func(*JwtService)

// WithAccessTokenExpiry sets the access token expiry duration
func WithAccessTokenExpiry(expiry time.Duration) JwtServiceOption {
	return func(js *JwtService) {
		js.accessTokenExpiry = expiry
	}
}

// WithRefreshTokenExpiry sets the refresh token expiry duration
func WithRefreshTokenExpiry(expiry time.Duration) JwtServiceOption {
	return func(js *JwtService) {
		js.refreshTokenExpiry = expiry
	}
}

// NewJwtService creates a new JwtService
func NewJwtService(generator TokenGenerator, options ...JwtServiceOption) *JwtService {
	js := &JwtService{
		generator:          generator,
		accessTokenExpiry:  DefaultAccessTokenExpiry,
		refreshTokenExpiry: DefaultRefreshTokenExpiry,
	}

	for _, option := range options {
		option(js)
	}

	return js
}

// GenerateTokens issues a fresh access/refresh pair for the subject.
func (js *JwtService) GenerateTokens(subject string, extraClaims map[string]interface{}) (TokenPair, error) {
	accessToken, accessExpiry, err := js.generator.GenerateToken(subject, js.accessTokenExpiry, extraClaims)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiry, err := js.generator.GenerateToken(subject, js.refreshTokenExpiry, extraClaims)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:  TokenValue{Token: accessToken, Expiry: accessExpiry},
		RefreshToken: TokenValue{Token: refreshToken, Expiry: refreshExpiry},
	}, nil
}

// ParseToken validates a token and returns its subject.
func (js *JwtService) ParseToken(tokenStr string) (string, error) {
	token, err := js.generator.ParseToken(tokenStr)
	if err != nil {
		return "", err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("failed to read token subject: %w", err)
	}
	return subject, nil
}

var _ TokenService = (*JwtService)(nil)
