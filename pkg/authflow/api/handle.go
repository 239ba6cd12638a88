package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/simpleauth/simple-auth/pkg/account"
	"github.com/simpleauth/simple-auth/pkg/authflow"
)

// Handle exposes the auth flows over HTTP.
type Handle struct {
	svc *authflow.Service
}

// NewHandle creates a new Handle.
func NewHandle(svc *authflow.Service) *Handle {
	return &Handle{svc: svc}
}

// Routes registers the public endpoints.
func (h *Handle) Routes(r chi.Router) {
	r.Post("/signup", respond(h.Signup))
	r.Post("/activate/{token}", respond(h.Activate))
	r.Post("/activate/code", respond(h.ActivateCode))
	r.Post("/activation/resend", respond(h.ResendActivation))
	r.Post("/login", respond(h.Login))
	r.Post("/token/refresh", respond(h.Refresh))
	r.Post("/password-reset/request", respond(h.RequestPasswordReset))
	r.Post("/password-reset/validate-code", respond(h.ValidateOTP))
	r.Post("/password-reset", respond(h.ChangePassword))
}

// ProtectedRoutes registers the endpoints that require an access token.
// The router must already carry jwtauth verification middleware.
func (h *Handle) ProtectedRoutes(r chi.Router) {
	r.Post("/logout", respond(h.Logout))
}

func respond(fn func(w http.ResponseWriter, r *http.Request) *Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resp := fn(w, r); resp != nil {
			resp.Render(w, r)
		}
	}
}

func (h *Handle) Signup(w http.ResponseWriter, r *http.Request) *Response {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return MessageJSON(http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.FullName == "" || req.Password == "" {
		return MessageJSON(http.StatusBadRequest, "Email, full name and password are required")
	}

	res, err := h.svc.Signup(r.Context(), authflow.SignupParams{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		return errorResponse(err)
	}
	return JSONResponse(http.StatusCreated, toUserResponse(res.User))
}

func (h *Handle) Activate(w http.ResponseWriter, r *http.Request) *Response {
	token := chi.URLParam(r, "token")
	if token == "" {
		return MessageJSON(http.StatusBadRequest, "Activation token is required")
	}

	user, err := h.svc.Activate(r.Context(), token)
	if err != nil {
		return errorResponse(err)
	}
	return JSONResponse(http.StatusOK, toUserResponse(user))
}

func (h *Handle) ActivateCode(w http.ResponseWriter, r *http.Request) *Response {
	var req ActivateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		return MessageJSON(http.StatusBadRequest, "Activation code is required")
	}

	user, err := h.svc.ActivateSMS(r.Context(), req.Code)
	if err != nil {
		return errorResponse(err)
	}
	return JSONResponse(http.StatusOK, toUserResponse(user))
}

func (h *Handle) ResendActivation(w http.ResponseWriter, r *http.Request) *Response {
	var req ResendActivationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		return MessageJSON(http.StatusBadRequest, "Email is required")
	}

	var err error
	switch req.Delivery {
	case "", "email":
		err = h.svc.ResendActivationEmail(r.Context(), req.Email)
	case "sms":
		err = h.svc.ResendActivationSMS(r.Context(), req.Email)
	default:
		return MessageJSON(http.StatusBadRequest, "Delivery must be email or sms")
	}
	if err != nil {
		return errorResponse(err)
	}
	return MessageJSON(http.StatusOK, "If the account is pending, a new activation message is on its way")
}

func (h *Handle) Login(w http.ResponseWriter, r *http.Request) *Response {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return MessageJSON(http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return MessageJSON(http.StatusBadRequest, "Email and password are required")
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return errorResponse(err)
	}
	return JSONResponse(http.StatusOK, TokenResponse{
		AccessToken:        res.AccessToken.Token,
		AccessTokenExpiry:  res.AccessToken.Expiry,
		RefreshToken:       res.RefreshToken.Token,
		RefreshTokenExpiry: res.RefreshToken.Expiry,
	})
}

func (h *Handle) Logout(w http.ResponseWriter, r *http.Request) *Response {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return MessageJSON(http.StatusUnauthorized, "Invalid access token")
	}
	subject, _ := claims["sub"].(string)
	userID, err := uuid.Parse(subject)
	if err != nil {
		return MessageJSON(http.StatusUnauthorized, "Invalid access token")
	}

	var req LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		return MessageJSON(http.StatusBadRequest, "Refresh token is required")
	}

	if err := h.svc.Logout(r.Context(), userID, req.RefreshToken); err != nil {
		return errorResponse(err)
	}
	return MessageJSON(http.StatusOK, "Logged out")
}

func (h *Handle) Refresh(w http.ResponseWriter, r *http.Request) *Response {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return MessageJSON(http.StatusBadRequest, "Invalid request body")
	}

	res, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		return errorResponse(err)
	}
	return JSONResponse(http.StatusOK, TokenResponse{
		AccessToken:        res.AccessToken.Token,
		AccessTokenExpiry:  res.AccessToken.Expiry,
		RefreshToken:       res.RefreshToken.Token,
		RefreshTokenExpiry: res.RefreshToken.Expiry,
	})
}

func (h *Handle) RequestPasswordReset(w http.ResponseWriter, r *http.Request) *Response {
	var req PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		return MessageJSON(http.StatusBadRequest, "Email is required")
	}

	var err error
	switch req.Delivery {
	case "", "email":
		err = h.svc.RequestPasswordResetEmail(r.Context(), req.Email)
	case "sms":
		err = h.svc.RequestPasswordResetSMS(r.Context(), req.Email)
	default:
		return MessageJSON(http.StatusBadRequest, "Delivery must be email or sms")
	}
	if err != nil {
		return errorResponse(err)
	}
	return MessageJSON(http.StatusOK, "If the account exists, reset instructions are on their way")
}

func (h *Handle) ValidateOTP(w http.ResponseWriter, r *http.Request) *Response {
	var req ValidateOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		return MessageJSON(http.StatusBadRequest, "Code is required")
	}

	if err := h.svc.ValidateOTP(r.Context(), req.Code); err != nil {
		return errorResponse(err)
	}
	return MessageJSON(http.StatusOK, "Code is valid")
}

func (h *Handle) ChangePassword(w http.ResponseWriter, r *http.Request) *Response {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return MessageJSON(http.StatusBadRequest, "Invalid request body")
	}
	if req.NewPassword == "" {
		return MessageJSON(http.StatusBadRequest, "New password is required")
	}
	if (req.Token == "") == (req.Code == "") {
		return MessageJSON(http.StatusBadRequest, "Provide exactly one of token or code")
	}

	var err error
	if req.Token != "" {
		err = h.svc.ChangePasswordEmail(r.Context(), req.Token, req.NewPassword)
	} else {
		err = h.svc.ChangePasswordSMS(r.Context(), req.Code, req.NewPassword)
	}
	if err != nil {
		return errorResponse(err)
	}
	return MessageJSON(http.StatusOK, "Password changed")
}

func toUserResponse(user account.User) UserResponse {
	var resp UserResponse
	if err := copier.Copy(&resp, &user); err != nil {
		slog.Error("Failed to map user response", "err", err)
	}
	resp.Status = string(user.Status)
	return resp
}

func errorResponse(err error) *Response {
	switch {
	case errors.Is(err, authflow.ErrUserAlreadyExists):
		return MessageJSON(http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, authflow.ErrInvalidToken):
		return MessageJSON(http.StatusBadRequest, "Invalid or expired activation token")
	case errors.Is(err, authflow.ErrAlreadyActivated):
		return MessageJSON(http.StatusConflict, "Account is already activated")
	case errors.Is(err, authflow.ErrInvalidCredentials):
		return MessageJSON(http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, authflow.ErrPendingVerification):
		return MessageJSON(http.StatusForbidden, "Account is pending verification, check your inbox")
	case errors.Is(err, authflow.ErrAccountDisabled):
		return MessageJSON(http.StatusForbidden, "Account is disabled, check your inbox to reactivate")
	case errors.Is(err, authflow.ErrLoginDenied):
		return MessageJSON(http.StatusForbidden, "Login is not allowed for this account")
	case errors.Is(err, authflow.ErrMissingRefreshToken):
		return MessageJSON(http.StatusUnauthorized, "Refresh token is required")
	case errors.Is(err, authflow.ErrInvalidRefreshToken):
		return MessageJSON(http.StatusUnauthorized, "Invalid refresh token")
	case errors.Is(err, authflow.ErrOTPExpiredOrInvalid):
		return MessageJSON(http.StatusBadRequest, "Code is invalid or expired")
	case errors.Is(err, authflow.ErrPasswordResetFailed):
		return MessageJSON(http.StatusBadRequest, "Password reset failed, request a new link or code")
	default:
		slog.Error("Unexpected error handling request", "err", err)
		return MessageJSON(http.StatusInternalServerError, "Internal server error")
	}
}
