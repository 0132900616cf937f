package middleware

import (
	"context"
	"net/http"

	"github.com/catalogd/catalogd/internal/api/response"
	"github.com/catalogd/catalogd/internal/auth"
)

const identityKey contextKey = "identity"

// TokenVerifier resolves a raw bearer token to an Identity.
type TokenVerifier interface {
	Verify(rawToken string) (*auth.Identity, error)
}

// Auth is middleware that extracts the Authorization bearer token and
// resolves it to an Identity. Missing or invalid tokens return 401 before
// any handler runs; handlers never re-authenticate.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := auth.FromHeader(r.Header.Get("Authorization"))
			if err != nil {
				response.Err(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			identity, err := verifier.Verify(raw)
			if err != nil {
				response.Err(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a context carrying the given Identity.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity retrieves the authenticated Identity from the request context.
func GetIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return id
	}
	return nil
}
