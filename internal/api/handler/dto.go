package handler

import (
	"time"

	"github.com/catalogd/catalogd/internal/product"
	"github.com/catalogd/catalogd/internal/profile"
	"github.com/catalogd/catalogd/internal/team"
)

// Wire field names are snake_case to match the database column names the
// frontend was built against.

type profileResponse struct {
	ID        string  `json:"id"`
	FullName  *string `json:"full_name"`
	Email     *string `json:"email"`
	TeamID    *string `json:"team_id"`
	CreatedAt string  `json:"created_at"`
}

func toProfileResponse(p *profile.Profile) profileResponse {
	var teamID *string
	if p.TeamID != nil {
		s := p.TeamID.String()
		teamID = &s
	}
	return profileResponse{
		ID:        p.ID.String(),
		FullName:  p.FullName,
		Email:     p.Email,
		TeamID:    teamID,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type teamResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	InviteCode string `json:"invite_code"`
	CreatedAt  string `json:"created_at"`
}

func toTeamResponse(t *team.Team) teamResponse {
	return teamResponse{
		ID:         t.ID.String(),
		Name:       t.Name,
		InviteCode: t.InviteCode,
		CreatedAt:  t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type creatorResponse struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

type productResponse struct {
	ID          string           `json:"id"`
	TeamID      string           `json:"team_id"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	ImagePath   *string          `json:"image_path"`
	Status      string           `json:"status"`
	CreatedBy   string           `json:"created_by"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
	DeletedAt   *string          `json:"deleted_at"`
	Creator     *creatorResponse `json:"creator,omitempty"`
}

func toProductResponse(p *product.Product) productResponse {
	var deletedAt *string
	if p.DeletedAt != nil {
		s := p.DeletedAt.UTC().Format(time.RFC3339)
		deletedAt = &s
	}
	return productResponse{
		ID:          p.ID.String(),
		TeamID:      p.TeamID.String(),
		Title:       p.Title,
		Description: p.Description,
		ImagePath:   p.ImagePath,
		Status:      p.Status,
		CreatedBy:   p.CreatedBy.String(),
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
		DeletedAt:   deletedAt,
	}
}

// toProductListItem includes the creator join, only populated by list queries.
func toProductListItem(p *product.Product) productResponse {
	resp := toProductResponse(p)
	if p.CreatorName != nil || p.CreatorEmail != nil {
		resp.Creator = &creatorResponse{FullName: p.CreatorName, Email: p.CreatorEmail}
	}
	return resp
}
