package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/simpleauth/simple-auth/pkg/account"
	"github.com/simpleauth/simple-auth/pkg/authflow"
	"github.com/simpleauth/simple-auth/pkg/clock"
	"github.com/simpleauth/simple-auth/pkg/session"
	"github.com/simpleauth/simple-auth/pkg/singleuse"
	"github.com/simpleauth/simple-auth/pkg/tokengenerator"
)

const testJWTSecret = "test-secret"

type apiEnv struct {
	router *chi.Mux
	users  *account.InMemoryRepository
	tokens *singleuse.InMemoryRepository
	clk    *clock.Fixed
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	clk := clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	users := account.NewInMemoryRepository(clk)
	tokens := singleuse.NewInMemoryRepository(clk)
	otps := singleuse.NewInMemoryRepository(clk)
	sessions := session.NewInMemoryRepository(clk)

	hasher, err := account.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	svc := authflow.NewService(users, hasher,
		singleuse.NewStore(tokens, singleuse.NewHexTokenGenerator(16), time.Hour, clk),
		singleuse.NewStore(otps, singleuse.NewNumericCodeGenerator(6), 5*time.Minute, clk),
		sessions,
		tokengenerator.NewJwtService(tokengenerator.NewJwtTokenGenerator(testJWTSecret, "simple-auth", "simple-auth")),
	)

	handle := NewHandle(svc)
	auth := jwtauth.New("HS256", []byte(testJWTSecret), nil)

	router := chi.NewRouter()
	router.Group(handle.Routes)
	router.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(auth))
		r.Use(jwtauth.Authenticator(auth))
		handle.ProtectedRoutes(r)
	})

	return &apiEnv{router: router, users: users, tokens: tokens, clk: clk}
}

func (e *apiEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *apiEnv) signupAndActivate(t *testing.T, email, password string) UserResponse {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/signup", SignupRequest{
		Email:    email,
		FullName: "Alice Example",
		Password: password,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	token, err := e.tokens.FindByUserID(context.Background(), created.ID)
	require.NoError(t, err)

	rec = e.do(t, http.MethodPost, "/activate/"+token.Token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var activated UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &activated))
	return activated
}

func TestSignupActivateLoginFlow(t *testing.T) {
	env := newAPIEnv(t)

	user := env.signupAndActivate(t, "alice@example.com", "a fine password")
	assert.Equal(t, string(account.StatusActive), user.Status)

	rec := env.do(t, http.MethodPost, "/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "a fine password",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestSignupValidation(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/signup", SignupRequest{Email: "alice@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupConflict(t *testing.T) {
	env := newAPIEnv(t)

	env.signupAndActivate(t, "alice@example.com", "a fine password")
	rec := env.do(t, http.MethodPost, "/signup", SignupRequest{
		Email:    "alice@example.com",
		FullName: "Alice Again",
		Password: "another password",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginPendingAccount(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/signup", SignupRequest{
		Email:    "bob@example.com",
		FullName: "Bob Example",
		Password: "bobs password",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/login", LoginRequest{
		Email:    "bob@example.com",
		Password: "bobs password",
	}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	env := newAPIEnv(t)

	env.signupAndActivate(t, "alice@example.com", "a fine password")

	rec := env.do(t, http.MethodPost, "/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "not it",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	env := newAPIEnv(t)

	env.signupAndActivate(t, "alice@example.com", "a fine password")
	rec := env.do(t, http.MethodPost, "/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "a fine password",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))

	rec = env.do(t, http.MethodPost, "/token/refresh", RefreshRequest{RefreshToken: tokens.RefreshToken}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rotated TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rotated))
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// the replaced refresh token no longer works
	rec = env.do(t, http.MethodPost, "/token/refresh", RefreshRequest{RefreshToken: tokens.RefreshToken}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// logout requires the access token and ends the session
	authHeader := map[string]string{"Authorization": "Bearer " + rotated.AccessToken}
	rec = env.do(t, http.MethodPost, "/logout", LogoutRequest{RefreshToken: rotated.RefreshToken}, authHeader)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/token/refresh", RefreshRequest{RefreshToken: rotated.RefreshToken}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRequiresAccessToken(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/logout", LogoutRequest{RefreshToken: "whatever"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newAPIEnv(t)

	user := env.signupAndActivate(t, "alice@example.com", "a fine password")

	rec := env.do(t, http.MethodPost, "/password-reset/request", PasswordResetRequest{Email: "alice@example.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	token, err := env.tokens.FindByUserID(context.Background(), user.ID)
	require.NoError(t, err)

	rec = env.do(t, http.MethodPost, "/password-reset", ChangePasswordRequest{
		Token:       token.Token,
		NewPassword: "a better password",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "a better password",
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPasswordResetRequestUnknownEmail(t *testing.T) {
	env := newAPIEnv(t)

	// same answer whether or not the account exists
	rec := env.do(t, http.MethodPost, "/password-reset/request", PasswordResetRequest{Email: "nobody@example.com"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChangePasswordRequiresExactlyOneCredential(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/password-reset", ChangePasswordRequest{
		Token:       "tok",
		Code:        "123456",
		NewPassword: "pw",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/password-reset", ChangePasswordRequest{NewPassword: "pw"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
