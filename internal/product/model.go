package product

import (
	"time"

	"github.com/google/uuid"
)

// Statuses form a one-way lifecycle: draft -> active, draft|active -> deleted.
const (
	StatusDraft   = "draft"
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// Product represents a row in the products table.
type Product struct {
	ID          uuid.UUID
	TeamID      uuid.UUID
	Title       string
	Description *string
	ImagePath   *string
	Status      string
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time

	// Creator details joined from profiles; only populated by List.
	CreatorName  *string
	CreatorEmail *string
}

// ListFilter holds optional filters and pagination for listing products.
type ListFilter struct {
	Status      string // "", "draft", "active" or "deleted"; "" means all
	Query       string // full-text search over title and description
	CreatedBy   *uuid.UUID
	UpdatedFrom *time.Time
	UpdatedTo   *time.Time
	Page        int // default 1
	PageSize    int // default 10, max 50
}

// ListResult holds the result of a paginated list query.
type ListResult struct {
	Products []Product
	Total    int
	Page     int
	PageSize int
}

// UpdateFields holds user-updatable fields on a product record.
// Nil fields are not updated.
type UpdateFields struct {
	Title       *string
	Description *string
	ImagePath   *string
}
