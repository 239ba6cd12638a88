package authflow

import "errors"

var (
	// ErrUserAlreadyExists is returned when signup hits a live user with
	// the same email.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidToken is returned when an activation token is unknown or
	// expired.
	ErrInvalidToken = errors.New("invalid token")

	// ErrAlreadyActivated is returned when activation is attempted on an
	// account that is past pending_verification.
	ErrAlreadyActivated = errors.New("account already activated")

	// ErrInvalidCredentials covers wrong email and wrong password alike;
	// the two are never distinguished.
	ErrInvalidCredentials = errors.New("invalid user or password")

	// ErrPendingVerification is returned when a pending account tries to
	// log in; a fresh activation token has been sent if needed.
	ErrPendingVerification = errors.New("account pending verification")

	// ErrAccountDisabled is returned when a disabled account tries to log
	// in; a reactivation token has been sent.
	ErrAccountDisabled = errors.New("account disabled")

	// ErrLoginDenied is returned when the login guard rejects the account.
	ErrLoginDenied = errors.New("login denied")

	// ErrMissingRefreshToken is returned when the refresh call carries no
	// token.
	ErrMissingRefreshToken = errors.New("missing refresh token")

	// ErrInvalidRefreshToken is returned when no session holds the
	// presented refresh token.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrOTPExpiredOrInvalid is the single outcome for every OTP
	// validation failure; which check failed is never surfaced.
	ErrOTPExpiredOrInvalid = errors.New("otp expired or invalid")

	// ErrPasswordResetFailed is the generic outcome for change-password
	// failures: invalid token or code, unknown user, wrong status.
	ErrPasswordResetFailed = errors.New("password reset failed")
)
