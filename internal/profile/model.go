package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a row in the profiles table. The id matches the
// authenticated user id from the identity provider.
type Profile struct {
	ID        uuid.UUID
	FullName  *string
	Email     *string
	TeamID    *uuid.UUID
	CreatedAt time.Time
}
