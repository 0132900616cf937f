package product

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no product matches the id within the team.
var ErrNotFound = errors.New("product not found")

// ErrNotDraft is returned when activation targets a product that is not in
// draft status (or does not exist in the team).
var ErrNotDraft = errors.New("product not found or not draft")

// Repository provides CRUD operations on the products table. Every operation
// is scoped to a team id so a product can never be read or written across
// team boundaries, regardless of what the handler passes in.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id, teamID uuid.UUID) (*Product, error)
	List(ctx context.Context, teamID uuid.UUID, filter ListFilter) (*ListResult, error)
	Update(ctx context.Context, id, teamID uuid.UUID, fields UpdateFields) (*Product, error)
	Activate(ctx context.Context, id, teamID uuid.UUID) (*Product, error)
	SoftDelete(ctx context.Context, id, teamID uuid.UUID) (*Product, error)
}
