package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/catalogd/catalogd/internal/api/middleware"
	"github.com/catalogd/catalogd/internal/api/response"
	"github.com/catalogd/catalogd/internal/presence"
	"github.com/catalogd/catalogd/internal/profile"
)

type presenceListResponse struct {
	Members []presence.Member `json:"members"`
}

// PresenceHandler exposes the best-effort online set for the caller's team.
type PresenceHandler struct {
	tracker     presence.Tracker
	profileRepo profile.Repository
}

// NewPresenceHandler creates a new PresenceHandler. tracker may be nil when
// no presence backend is configured; all endpoints then return 503.
func NewPresenceHandler(tracker presence.Tracker, profileRepo profile.Repository) *PresenceHandler {
	return &PresenceHandler{tracker: tracker, profileRepo: profileRepo}
}

func (h *PresenceHandler) enabled(w http.ResponseWriter) bool {
	if h.tracker == nil {
		response.Err(w, http.StatusServiceUnavailable, "Presence tracking is not configured")
		return false
	}
	return true
}

// List handles GET /presence.
func (h *PresenceHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}

	identity := middleware.GetIdentity(r.Context())

	teamID, err := resolveTeam(r.Context(), h.profileRepo, identity)
	if err != nil {
		if errors.Is(err, errNoTeam) {
			response.Err(w, http.StatusBadRequest, "User has no team")
			return
		}
		slog.Error("failed to resolve team", "error", err, "userId", identity.UserID)
		response.Unexpected(w, err)
		return
	}

	// Presence is best-effort; a tracker failure degrades to an empty set
	// rather than failing the request.
	members, err := h.tracker.List(r.Context(), teamID)
	if err != nil {
		slog.Warn("failed to list presence", "error", err, "teamId", teamID)
		members = []presence.Member{}
	}

	response.JSON(w, http.StatusOK, presenceListResponse{Members: members})
}

// Heartbeat handles POST /presence/heartbeat. The tracked payload comes from
// the caller's profile, not the request body, so clients cannot impersonate.
func (h *PresenceHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}

	identity := middleware.GetIdentity(r.Context())

	p, err := h.profileRepo.GetByID(r.Context(), identity.UserID)
	if err != nil {
		slog.Error("failed to load profile", "error", err, "userId", identity.UserID)
		response.Unexpected(w, err)
		return
	}
	if p.TeamID == nil {
		response.Err(w, http.StatusBadRequest, "User has no team")
		return
	}

	member := presence.Member{UserID: p.ID, FullName: p.FullName, Email: p.Email}
	if err := h.tracker.Heartbeat(r.Context(), *p.TeamID, member); err != nil {
		// Best-effort: a dropped heartbeat just ages out of the set.
		slog.Warn("failed to record heartbeat", "error", err, "teamId", *p.TeamID)
	}

	response.NoContent(w)
}

// Leave handles POST /presence/leave.
func (h *PresenceHandler) Leave(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}

	identity := middleware.GetIdentity(r.Context())

	teamID, err := resolveTeam(r.Context(), h.profileRepo, identity)
	if err != nil {
		if errors.Is(err, errNoTeam) {
			response.Err(w, http.StatusBadRequest, "User has no team")
			return
		}
		slog.Error("failed to resolve team", "error", err, "userId", identity.UserID)
		response.Unexpected(w, err)
		return
	}

	if err := h.tracker.Leave(r.Context(), teamID, identity.UserID); err != nil {
		// Best-effort: the entry expires on its own if removal fails.
		slog.Warn("failed to remove presence entry", "error", err, "teamId", teamID)
	}

	response.NoContent(w)
}
