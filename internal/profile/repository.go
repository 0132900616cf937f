package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrProfileNotFound is returned when a profile record is not found.
var ErrProfileNotFound = errors.New("profile not found")

// Repository provides access to the profiles table.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	// Ensure creates the profile row for an identity if it does not exist
	// yet and returns the current row either way.
	Ensure(ctx context.Context, id uuid.UUID, fullName, email string) (*Profile, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]Profile, error)
}
