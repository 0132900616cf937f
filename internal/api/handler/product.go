package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/catalogd/catalogd/internal/api/middleware"
	"github.com/catalogd/catalogd/internal/api/response"
	"github.com/catalogd/catalogd/internal/api/validation"
	"github.com/catalogd/catalogd/internal/product"
	"github.com/catalogd/catalogd/internal/profile"
)

type createProductRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ImagePath   *string `json:"image_path"`
}

type updateProductRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImagePath   *string `json:"image_path"`
}

type productListResponse struct {
	Items    []productResponse `json:"items"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Total    int               `json:"total"`
}

type productEnvelope struct {
	Product productResponse `json:"product"`
}

// ProductHandler handles product CRUD and lifecycle endpoints.
type ProductHandler struct {
	repo        product.Repository
	profileRepo profile.Repository
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(repo product.Repository, profileRepo profile.Repository) *ProductHandler {
	return &ProductHandler{repo: repo, profileRepo: profileRepo}
}

// team resolves the caller's team or writes the error response itself,
// returning false when the request is already answered.
func (h *ProductHandler) team(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	identity := middleware.GetIdentity(r.Context())

	teamID, err := resolveTeam(r.Context(), h.profileRepo, identity)
	if err != nil {
		if errors.Is(err, errNoTeam) {
			response.Err(w, http.StatusBadRequest, "User has no team")
			return uuid.Nil, false
		}
		slog.Error("failed to resolve team", "error", err, "userId", identity.UserID)
		response.Unexpected(w, err)
		return uuid.Nil, false
	}

	return teamID, true
}

func productID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.ErrWithDetails(w, http.StatusBadRequest, "Invalid route parameters",
			[]validation.FieldError{{Field: "id", Message: "id must be a valid UUID"}})
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, fieldErrors := validation.ParseProductsQuery(r.URL.Query())
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Invalid query parameters", fieldErrors)
		return
	}

	teamID, ok := h.team(w, r)
	if !ok {
		return
	}

	result, err := h.repo.List(r.Context(), teamID, filter)
	if err != nil {
		slog.Error("failed to list products", "error", err, "teamId", teamID)
		response.Unexpected(w, err)
		return
	}

	items := make([]productResponse, 0, len(result.Products))
	for i := range result.Products {
		items = append(items, toProductListItem(&result.Products[i]))
	}

	response.JSON(w, http.StatusOK, productListResponse{
		Items:    items,
		Page:     result.Page,
		PageSize: result.PageSize,
		Total:    result.Total,
	})
}

// Create handles POST /products. New products always start as drafts.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req createProductRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.Err(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	fieldErrors := validation.ValidateCreateProductRequest(validation.CreateProductRequest{
		Title:       req.Title,
		Description: req.Description,
		ImagePath:   req.ImagePath,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Invalid request body", fieldErrors)
		return
	}

	teamID, ok := h.team(w, r)
	if !ok {
		return
	}

	p := &product.Product{
		TeamID:      teamID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ImagePath:   req.ImagePath,
		CreatedBy:   identity.UserID,
	}

	if err := h.repo.Create(r.Context(), p); err != nil {
		slog.Error("failed to create product", "error", err, "teamId", teamID)
		response.Unexpected(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, productEnvelope{Product: toProductResponse(p)})
}

// GetByID handles GET /products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	teamID, ok := h.team(w, r)
	if !ok {
		return
	}

	p, err := h.repo.GetByID(r.Context(), id, teamID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "Product not found")
			return
		}
		slog.Error("failed to fetch product", "error", err, "id", id)
		response.Unexpected(w, err)
		return
	}

	response.JSON(w, http.StatusOK, productEnvelope{Product: toProductResponse(p)})
}

// Update handles PATCH /products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.Err(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	fieldErrors := validation.ValidateUpdateProductRequest(validation.UpdateProductRequest{
		Title:       req.Title,
		Description: req.Description,
		ImagePath:   req.ImagePath,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Invalid request body", fieldErrors)
		return
	}

	teamID, ok := h.team(w, r)
	if !ok {
		return
	}

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}

	p, err := h.repo.Update(r.Context(), id, teamID, product.UpdateFields{
		Title:       req.Title,
		Description: req.Description,
		ImagePath:   req.ImagePath,
	})
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "Product not found")
			return
		}
		slog.Error("failed to update product", "error", err, "id", id)
		response.Unexpected(w, err)
		return
	}

	response.JSON(w, http.StatusOK, productEnvelope{Product: toProductResponse(p)})
}

// Activate handles POST /products/{id}/activate, the draft -> active
// transition. A product in any other state is a business-rule failure.
func (h *ProductHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	teamID, ok := h.team(w, r)
	if !ok {
		return
	}

	p, err := h.repo.Activate(r.Context(), id, teamID)
	if err != nil {
		if errors.Is(err, product.ErrNotDraft) {
			response.Err(w, http.StatusBadRequest, "Product not found or not draft")
			return
		}
		slog.Error("failed to activate product", "error", err, "id", id)
		response.Unexpected(w, err)
		return
	}

	response.JSON(w, http.StatusOK, productEnvelope{Product: toProductResponse(p)})
}

// Delete handles POST /products/{id}/delete, the terminal soft delete.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	teamID, ok := h.team(w, r)
	if !ok {
		return
	}

	p, err := h.repo.SoftDelete(r.Context(), id, teamID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			response.Err(w, http.StatusBadRequest, "Product not found or already deleted")
			return
		}
		slog.Error("failed to delete product", "error", err, "id", id)
		response.Unexpected(w, err)
		return
	}

	response.JSON(w, http.StatusOK, productEnvelope{Product: toProductResponse(p)})
}
