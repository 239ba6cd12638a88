package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
)

// SignupRequest is the payload for registering a new account.
type SignupRequest struct {
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Password    string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries an issued access/refresh token pair.
type TokenResponse struct {
	AccessToken        string    `json:"access_token"`
	AccessTokenExpiry  time.Time `json:"access_token_expiry"`
	RefreshToken       string    `json:"refresh_token"`
	RefreshTokenExpiry time.Time `json:"refresh_token_expiry"`
}

// RefreshRequest is the payload for rotating a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest is the payload for ending a session.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ActivateCodeRequest is the payload for SMS-code activation.
type ActivateCodeRequest struct {
	Code string `json:"code"`
}

// PasswordResetRequest asks for a reset credential to be delivered.
type PasswordResetRequest struct {
	Email    string `json:"email"`
	Delivery string `json:"delivery,omitempty"` // "email" (default) or "sms"
}

// ValidateOTPRequest is the payload for checking a one-time code.
type ValidateOTPRequest struct {
	Code string `json:"code"`
}

// ChangePasswordRequest completes a password reset. Exactly one of Token
// (email flow) or Code (SMS flow) must be set.
type ChangePasswordRequest struct {
	Token       string `json:"token,omitempty"`
	Code        string `json:"code,omitempty"`
	NewPassword string `json:"new_password"`
}

// ResendActivationRequest asks for a fresh activation credential.
type ResendActivationRequest struct {
	Email    string `json:"email"`
	Delivery string `json:"delivery,omitempty"` // "email" (default) or "sms"
}

// MessageResponse is a generic status message body.
type MessageResponse struct {
	Message string `json:"message"`
}

// Response is a deferred HTTP response: handlers build one and the router
// wrapper renders it.
type Response struct {
	Code        int
	body        interface{}
	contentType string
}

// JSONResponse builds a JSON response with the given status code.
func JSONResponse(code int, body interface{}) *Response {
	return &Response{Code: code, body: body, contentType: "application/json"}
}

// MessageJSON builds a JSON message body with the given status code.
func MessageJSON(code int, message string) *Response {
	return JSONResponse(code, MessageResponse{Message: message})
}

// Render writes the response.
func (resp *Response) Render(w http.ResponseWriter, r *http.Request) {
	render.Status(r, resp.Code)
	switch resp.contentType {
	case "application/json":
		render.JSON(w, r, resp.body)
	default:
		render.PlainText(w, r, fmt.Sprint(resp.body))
	}
}
