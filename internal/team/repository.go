package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// ErrInvalidInviteCode is returned when no team matches a join invite code.
var ErrInvalidInviteCode = errors.New("invalid invite code")

// ErrAlreadyInTeam is returned when the caller already belongs to a team.
var ErrAlreadyInTeam = errors.New("user already belongs to a team")

// Repository provides team membership operations. Create and Join run in a
// single transaction so a team never exists without its founding member and
// a membership row never points at a missing team.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	Create(ctx context.Context, name string, userID uuid.UUID) (*Team, error)
	Join(ctx context.Context, inviteCode string, userID uuid.UUID) (*Team, error)
}
