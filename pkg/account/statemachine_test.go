package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		event   Event
		want    Status
		wantErr bool
	}{
		{"pending activates", StatusPendingVerification, EventActivate, StatusActive, false},
		{"active disables", StatusActive, EventDisable, StatusDisabled, false},
		{"active blocks", StatusActive, EventBlock, StatusBlocked, false},
		{"active cannot activate again", StatusActive, EventActivate, "", true},
		{"pending cannot disable", StatusPendingVerification, EventDisable, "", true},
		{"disabled is terminal for activate", StatusDisabled, EventActivate, "", true},
		{"blocked is terminal", StatusBlocked, EventActivate, "", true},
		{"inactive has no transitions", StatusInactive, EventActivate, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Next(tt.event)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIllegalTransition)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanLogin(t *testing.T) {
	assert.True(t, StatusActive.CanLogin())
	assert.False(t, StatusPendingVerification.CanLogin())
	assert.False(t, StatusInactive.CanLogin())
	assert.False(t, StatusDisabled.CanLogin())
	assert.False(t, StatusBlocked.CanLogin())
}

func TestDefaultLoginGuard(t *testing.T) {
	assert.NoError(t, DefaultLoginGuard(User{Status: StatusActive}))
	assert.ErrorIs(t, DefaultLoginGuard(User{Status: StatusBlocked}), ErrAccountBlocked)
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusInactive, StatusPendingVerification, StatusDisabled, StatusBlocked} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, Status("frobnicated").IsValid())
}
