package account

import "fmt"

// Event is a lifecycle event applied to an account status.
type Event string

const (
	EventActivate Event = "activate"
	EventDisable  Event = "disable"
	EventBlock    Event = "block"
)

// transitions is the closed transition table: current status × event ->
// next status. Anything not listed is an illegal transition. Blocked has
// no outgoing transitions; inactive is reserved and unreachable.
var transitions = map[Status]map[Event]Status{
	StatusPendingVerification: {
		EventActivate: StatusActive,
	},
	StatusActive: {
		EventDisable: StatusDisabled,
		EventBlock:   StatusBlocked,
	},
}

// Next returns the status reached by applying event e to s, or
// ErrIllegalTransition when the table has no entry.
func (s Status) Next(e Event) (Status, error) {
	if next, ok := transitions[s][e]; ok {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s, e)
}

// CanLogin reports whether credential verification may proceed for the
// given status. Pending and disabled accounts are handled separately by
// the login flow; only active accounts reach password verification.
func (s Status) CanLogin() bool {
	return s == StatusActive
}

// LoginGuard is an external policy hook applied after the basic status
// checks pass. A non-nil error denies the login.
type LoginGuard func(u User) error

// DefaultLoginGuard rejects blocked accounts and accepts everything else.
func DefaultLoginGuard(u User) error {
	if u.Status == StatusBlocked {
		return ErrAccountBlocked
	}
	return nil
}
