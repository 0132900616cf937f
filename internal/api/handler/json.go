package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/catalogd/catalogd/internal/auth"
	"github.com/catalogd/catalogd/internal/profile"
)

// errNoTeam marks requests from callers that have not joined a team yet.
var errNoTeam = errors.New("user has no team")

// errBadJSON marks request bodies that claim to be JSON but do not parse.
var errBadJSON = errors.New("invalid JSON body")

const maxBodyBytes = 1 << 20

// decodeBody decodes a JSON request body into dst. A missing body or a
// non-JSON content type leaves dst at its zero value rather than failing, so
// endpoints with all-optional fields accept bare POSTs. Malformed JSON
// returns errBadJSON.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errBadJSON
	}
	return nil
}

// resolveTeam loads the caller's profile and returns its team id. Callers
// without a team get errNoTeam; every resource operation except team
// creation and joining requires membership.
func resolveTeam(ctx context.Context, repo profile.Repository, identity *auth.Identity) (uuid.UUID, error) {
	p, err := repo.GetByID(ctx, identity.UserID)
	if err != nil {
		return uuid.Nil, err
	}
	if p.TeamID == nil {
		return uuid.Nil, errNoTeam
	}
	return *p.TeamID, nil
}
