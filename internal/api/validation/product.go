package validation

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/catalogd/catalogd/internal/product"
)

var validStatusFilters = map[string]bool{"all": true, "draft": true, "active": true, "deleted": true}

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 50
	maxTitleLength  = 200
)

// ParseProductsQuery coerces and validates the query string of GET /products,
// applying the documented defaults for absent fields.
func ParseProductsQuery(values url.Values) (product.ListFilter, []FieldError) {
	var errs []FieldError
	filter := product.ListFilter{Page: defaultPage, PageSize: defaultPageSize}

	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errs = append(errs, FieldError{Field: "page", Message: "page must be a positive integer"})
		} else {
			filter.Page = n
		}
	}

	if raw := values.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPageSize {
			errs = append(errs, FieldError{Field: "pageSize", Message: fmt.Sprintf("pageSize must be an integer between 1 and %d", maxPageSize)})
		} else {
			filter.PageSize = n
		}
	}

	if raw := values.Get("status"); raw != "" {
		if !validStatusFilters[raw] {
			errs = append(errs, FieldError{Field: "status", Message: `status must be one of "all", "draft", "active", "deleted"`})
		} else if raw != "all" {
			filter.Status = raw
		}
	}

	filter.Query = strings.TrimSpace(values.Get("q"))

	if raw := strings.TrimSpace(values.Get("createdBy")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			errs = append(errs, FieldError{Field: "createdBy", Message: "createdBy must be a valid UUID"})
		} else {
			filter.CreatedBy = &id
		}
	}

	if raw := strings.TrimSpace(values.Get("updatedFrom")); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errs = append(errs, FieldError{Field: "updatedFrom", Message: "updatedFrom must be an RFC 3339 timestamp"})
		} else {
			filter.UpdatedFrom = &ts
		}
	}

	if raw := strings.TrimSpace(values.Get("updatedTo")); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errs = append(errs, FieldError{Field: "updatedTo", Message: "updatedTo must be an RFC 3339 timestamp"})
		} else {
			filter.UpdatedTo = &ts
		}
	}

	return filter, errs
}

// CreateProductRequest mirrors the fields needed for create product validation.
type CreateProductRequest struct {
	Title       string
	Description *string
	ImagePath   *string
}

// ValidateCreateProductRequest validates the fields of a create product request.
func ValidateCreateProductRequest(req CreateProductRequest) []FieldError {
	var errs []FieldError

	title := strings.TrimSpace(req.Title)
	if title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(title) > maxTitleLength {
		errs = append(errs, FieldError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", maxTitleLength)})
	}

	return errs
}

// UpdateProductRequest mirrors the fields needed for update product validation.
// Nil fields are not validated.
type UpdateProductRequest struct {
	Title       *string
	Description *string
	ImagePath   *string
}

// ValidateUpdateProductRequest validates only non-nil fields on an update
// request and requires at least one of them to be present.
func ValidateUpdateProductRequest(req UpdateProductRequest) []FieldError {
	var errs []FieldError

	if req.Title == nil && req.Description == nil && req.ImagePath == nil {
		return []FieldError{{Field: "body", Message: "nothing to update"}}
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			errs = append(errs, FieldError{Field: "title", Message: "title must not be empty"})
		} else if len(title) > maxTitleLength {
			errs = append(errs, FieldError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", maxTitleLength)})
		}
	}

	return errs
}
