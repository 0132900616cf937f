package validation

import "strings"

// CreateTeamRequest mirrors the fields needed for create team validation.
type CreateTeamRequest struct {
	Name string
}

// ValidateCreateTeamRequest validates the fields of a create team request.
func ValidateCreateTeamRequest(req CreateTeamRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "team name is required"})
	} else if len(name) > 120 {
		errs = append(errs, FieldError{Field: "name", Message: "team name must be at most 120 characters"})
	}

	return errs
}

// JoinTeamRequest mirrors the fields needed for join team validation.
type JoinTeamRequest struct {
	InviteCode string
}

// ValidateJoinTeamRequest validates the fields of a join team request.
func ValidateJoinTeamRequest(req JoinTeamRequest) []FieldError {
	var errs []FieldError

	code := strings.TrimSpace(req.InviteCode)
	if code == "" {
		errs = append(errs, FieldError{Field: "invite_code", Message: "invite code is required"})
	} else if len(code) > 200 {
		errs = append(errs, FieldError{Field: "invite_code", Message: "invite code must be at most 200 characters"})
	}

	return errs
}
