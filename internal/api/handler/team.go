package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/catalogd/catalogd/internal/api/middleware"
	"github.com/catalogd/catalogd/internal/api/response"
	"github.com/catalogd/catalogd/internal/api/validation"
	"github.com/catalogd/catalogd/internal/profile"
	"github.com/catalogd/catalogd/internal/team"
)

type createTeamRequest struct {
	Name string `json:"name"`
}

type joinTeamRequest struct {
	InviteCode string `json:"invite_code"`
}

type membersResponse struct {
	Members []profileResponse `json:"members"`
}

// TeamHandler handles team creation, joining, and member listing.
type TeamHandler struct {
	teamRepo    team.Repository
	profileRepo profile.Repository
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamRepo team.Repository, profileRepo profile.Repository) *TeamHandler {
	return &TeamHandler{teamRepo: teamRepo, profileRepo: profileRepo}
}

// Create handles POST /team/create.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req createTeamRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.Err(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	fieldErrors := validation.ValidateCreateTeamRequest(validation.CreateTeamRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Invalid request body", fieldErrors)
		return
	}

	t, err := h.teamRepo.Create(r.Context(), strings.TrimSpace(req.Name), identity.UserID)
	if err != nil {
		if errors.Is(err, team.ErrAlreadyInTeam) {
			response.Err(w, http.StatusBadRequest, "User already belongs to a team")
			return
		}
		slog.Error("failed to create team", "error", err, "userId", identity.UserID)
		response.Unexpected(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]teamResponse{"team": toTeamResponse(t)})
}

// Join handles POST /team/join.
func (h *TeamHandler) Join(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req joinTeamRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.Err(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	fieldErrors := validation.ValidateJoinTeamRequest(validation.JoinTeamRequest{InviteCode: req.InviteCode})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Invalid request body", fieldErrors)
		return
	}

	t, err := h.teamRepo.Join(r.Context(), strings.TrimSpace(req.InviteCode), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, team.ErrInvalidInviteCode):
			response.Err(w, http.StatusBadRequest, "Invalid invite code")
		case errors.Is(err, team.ErrAlreadyInTeam):
			response.Err(w, http.StatusBadRequest, "User already belongs to a team")
		default:
			slog.Error("failed to join team", "error", err, "userId", identity.UserID)
			response.Unexpected(w, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]teamResponse{"team": toTeamResponse(t)})
}

// Members handles GET /team/members.
func (h *TeamHandler) Members(w http.ResponseWriter, r *http.Request) {
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

	members, err := h.profileRepo.ListByTeam(r.Context(), teamID)
	if err != nil {
		slog.Error("failed to list team members", "error", err, "teamId", teamID)
		response.Unexpected(w, err)
		return
	}

	items := make([]profileResponse, 0, len(members))
	for i := range members {
		items = append(items, toProfileResponse(&members[i]))
	}

	response.JSON(w, http.StatusOK, membersResponse{Members: items})
}
