package session

import (
	"time"

	"github.com/google/uuid"
)

// Session binds a user to an issued refresh token. A user may hold many
// concurrent sessions; a password change removes them all at once.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	CreatedAt time.Time
}
