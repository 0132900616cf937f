package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when a bearer token is missing, malformed,
// expired, or fails signature verification.
var ErrInvalidToken = errors.New("invalid or expired token")

type claims struct {
	Email    string `json:"email"`
	FullName string `json:"name"`
	jwt.RegisteredClaims
}

// Verifier validates bearer JWTs issued by the identity provider. Tokens are
// HS256-signed with a secret shared with the provider; the subject claim
// carries the user id.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for the given shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a raw JWT and resolves it to an Identity.
func (v *Verifier) Verify(rawToken string) (*Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(rawToken, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:   userID,
		Email:    c.Email,
		FullName: c.FullName,
	}, nil
}

// FromHeader extracts the raw token from an Authorization header value.
func FromHeader(header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrInvalidToken
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if raw == "" {
		return "", ErrInvalidToken
	}
	return raw, nil
}
