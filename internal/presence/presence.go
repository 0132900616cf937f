package presence

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrDisabled is returned when no presence backend is configured.
var ErrDisabled = errors.New("presence tracking is not configured")

// Member is the payload tracked for an online team member.
type Member struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName *string   `json:"full_name,omitempty"`
	Email    *string   `json:"email,omitempty"`
}

// Tracker keeps a best-effort, eventually-consistent set of team members
// currently online. Entries expire unless refreshed by heartbeats; List
// returns whatever is live at that moment, rebuilt wholesale rather than
// diffed.
type Tracker interface {
	Heartbeat(ctx context.Context, teamID uuid.UUID, m Member) error
	List(ctx context.Context, teamID uuid.UUID) ([]Member, error)
	Leave(ctx context.Context, teamID, userID uuid.UUID) error
}
