package account

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a user account.
type Status string

const (
	StatusActive              Status = "active"
	StatusInactive            Status = "inactive"
	StatusPendingVerification Status = "pending_verification"
	StatusDisabled            Status = "disabled"
	StatusBlocked             Status = "blocked"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPendingVerification, StatusDisabled, StatusBlocked:
		return true
	}
	return false
}

// User represents a user account. Email uniqueness is enforced by the
// store; a soft-deleted user keeps its row and may be resurrected by a
// repeat signup.
type User struct {
	ID          uuid.UUID
	Email       string
	FullName    string
	PhoneNumber string
	Status      Status
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsDeleted reports whether the user is soft-deleted.
func (u User) IsDeleted() bool {
	return u.DeletedAt != nil
}
