package account

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when creating a user with an email that
	// already belongs to a non-deleted user.
	ErrEmailTaken = errors.New("email already taken")

	// ErrPasswordNotFound is returned when a user has no password record.
	ErrPasswordNotFound = errors.New("password not found")

	// ErrIllegalTransition is returned when the transition table has no
	// entry for the requested status change.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrAccountBlocked is returned by the default login guard for
	// blocked accounts.
	ErrAccountBlocked = errors.New("account is blocked")
)
