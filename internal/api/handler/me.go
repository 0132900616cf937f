package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/catalogd/catalogd/internal/api/middleware"
	"github.com/catalogd/catalogd/internal/api/response"
	"github.com/catalogd/catalogd/internal/profile"
	"github.com/catalogd/catalogd/internal/team"
)

type meResponse struct {
	Profile profileResponse `json:"profile"`
	Team    *teamResponse   `json:"team"`
}

// MeHandler handles the caller's own profile endpoint.
type MeHandler struct {
	profileRepo profile.Repository
	teamRepo    team.Repository
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(profileRepo profile.Repository, teamRepo team.Repository) *MeHandler {
	return &MeHandler{profileRepo: profileRepo, teamRepo: teamRepo}
}

// Get handles GET /me. The profile row is created on first sight of an
// identity, standing in for the signup trigger the hosted platform ran.
func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	p, err := h.profileRepo.Ensure(r.Context(), identity.UserID, identity.FullName, identity.Email)
	if err != nil {
		slog.Error("failed to load profile", "error", err, "userId", identity.UserID)
		response.Unexpected(w, err)
		return
	}

	resp := meResponse{Profile: toProfileResponse(p)}

	if p.TeamID != nil {
		t, err := h.teamRepo.GetByID(r.Context(), *p.TeamID)
		if err != nil && !errors.Is(err, team.ErrTeamNotFound) {
			slog.Error("failed to load team", "error", err, "teamId", *p.TeamID)
			response.Unexpected(w, err)
			return
		}
		if t != nil {
			tr := toTeamResponse(t)
			resp.Team = &tr
		}
	}

	response.JSON(w, http.StatusOK, resp)
}
