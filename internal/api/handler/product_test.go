package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogd/catalogd/internal/api/handler"
	"github.com/catalogd/catalogd/internal/product"
	"github.com/catalogd/catalogd/internal/profile"
)

func newProductHandler(repo *mockProductRepo, profiles *mockProfileRepo) *handler.ProductHandler {
	return handler.NewProductHandler(repo, profiles)
}

// ===== GET /products =====

func TestProductList_DefaultsApplied(t *testing.T) {
	t.Parallel()

	var captured product.ListFilter
	repo := &mockProductRepo{
		listFn: func(_ context.Context, teamID uuid.UUID, filter product.ListFilter) (*product.ListResult, error) {
			captured = filter
			assert.Equal(t, testTeamID, teamID)
			return &product.ListResult{Products: []product.Product{}, Total: 0, Page: filter.Page, PageSize: filter.PageSize}, nil
		},
	}
	h := newProductHandler(repo, &mockProfileRepo{})

	req, w := makeRequest(t, http.MethodGet, "/products", nil, nil)
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, captured.Page)
	assert.Equal(t, 10, captured.PageSize)
	assert.Empty(t, captured.Status)

	body := parseBody(t, w)
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(10), body["pageSize"])
	assert.Equal(t, float64(0), body["total"])
}

func TestProductList_InvalidStatus(t *testing.T) {
	t.Parallel()

	h := newProductHandler(&mockProductRepo{}, &mockProfileRepo{})

	req, w := makeRequest(t, http.MethodGet, "/products?status=bogus", nil, nil)
	h.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := parseBody(t, w)
	assert.Equal(t, "Invalid query parameters", body["error"])
	details := body["details"].([]interface{})
	require.Len(t, details, 1)
	assert.Equal(t, "status", details[0].(map[string]interface{})["field"])
}

func TestProductList_Pagination(t *testing.T) {
	t.Parallel()

	all := make([]product.Product, 25)
	for i := range all {
		all[i] = *sampleProduct(uuid.New(), product.StatusActive)
	}

	repo := &mockProductRepo{
		listFn: func(_ context.Context, _ uuid.UUID, filter product.ListFilter) (*product.ListResult, error) {
			from := (filter.Page - 1) * filter.PageSize
			to := from + filter.PageSize
			if to > len(all) {
				to = len(all)
			}
			page := []product.Product{}
			if from < len(all) {
				page = all[from:to]
			}
			return &product.ListResult{Products: page, Total: len(all), Page: filter.Page, PageSize: filter.PageSize}, nil
		},
	}
	h := newProductHandler(repo, &mockProfileRepo{})

	req, w := makeRequest(t, http.MethodGet, "/products?page=1&pageSize=10", nil, nil)
	h.List(w, req)
	body := parseBody(t, w)
	assert.Len(t, body["items"].([]interface{}), 10)
	assert.Equal(t, float64(25), body["total"])

	req, w = makeRequest(t, http.MethodGet, "/products?page=3&pageSize=10", nil, nil)
	h.List(w, req)
	body = parseBody(t, w)
	assert.Len(t, body["items"].([]interface{}), 5)
	assert.Equal(t, float64(25), body["total"])
}

func TestProductList_NoTeam(t *testing.T) {
	t.Parallel()

	profiles := &mockProfileRepo{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*profile.Profile, error) {
			return sampleProfile(id, nil), nil
		},
	}
	h := newProductHandler(&mockProductRepo{}, profiles)

	req, w := makeRequest(t, http.MethodGet, "/products", nil, nil)
	h.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User has no team", parseBody(t, w)["error"])
}

// ===== POST /products =====

func TestProductCreate_Success(t *testing.T) {
	t.Parallel()

	var created *product.Product
	repo := &mockProductRepo{
		createFn: func(_ context.Context, p *product.Product) error {
			p.ID = uuid.New()
			p.CreatedAt = time.Now().UTC()
			p.UpdatedAt = p.CreatedAt
			p.Status = product.StatusDraft
			created = p
			return nil
		},
	}
	h := newProductHandler(repo, &mockProfileRepo{})

	body, _ := json.Marshal(map[string]interface{}{"title": "  Widget  "})
	req, w := makeRequest(t, http.MethodPost, "/products", body, nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, created)
	assert.Equal(t, "Widget", created.Title)
	assert.Equal(t, testTeamID, created.TeamID)
	assert.Equal(t, testUserID, created.CreatedBy)

	resp := parseBody(t, w)["product"].(map[string]interface{})
	assert.Equal(t, "draft", resp["status"])
	assert.Equal(t, "Widget", resp["title"])
}

func TestProductCreate_MissingTitle(t *testing.T) {
	t.Parallel()

	h := newProductHandler(&mockProductRepo{}, &mockProfileRepo{})

	body, _ := json.Marshal(map[string]interface{}{})
	req, w := makeRequest(t, http.MethodPost, "/products", body, nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	details := parseBody(t, w)["details"].([]interface{})
	require.Len(t, details, 1)
	assert.Equal(t, "title", details[0].(map[string]interface{})["field"])
}

func TestProductCreate_MalformedJSON(t *testing.T) {
	t.Parallel()

	h := newProductHandler(&mockProductRepo{}, &mockProfileRepo{})

	req, w := makeRequest(t, http.MethodPost, "/products", []byte("{not json"), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON body", parseBody(t, w)["error"])
}

// ===== GET /products/{id} =====

func TestProductGet_Success(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockProductRepo{
		getByIDFn: func(_ context.Context, gotID, teamID uuid.UUID) (*product.Product, error) {
			assert.Equal(t, id, gotID)
			assert.Equal(t, testTeamID, teamID)
			return sampleProduct(id, product.StatusActive), nil
		},
	}
	h := newProductHandler(repo, &mockProfileRepo{})

	req, w := makeRequest(t, http.MethodGet, "/products/"+id.String(), nil, map[string]string{"id": id.String()})
	h.GetByID(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseBody(t, w)["product"].(map[string]interface{})
	assert.Equal(t, id.String(), resp["id"])
	assert.Equal(t, "active", resp["status"])
}

func TestProductGet_NotFound(t *testing.T) {
	t.Parallel()

	h := newProductHandler(&mockProductRepo{}, &mockProfileRepo{})

	id := uuid.New()
	req, w := makeRequest(t, http.MethodGet, "/products/"+id.String(), nil, map[string]string{"id": id.String()})
	h.GetByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductGet_InvalidID(t *testing.T) {
	t.Parallel()

	h := newProductHandler(&mockProductRepo{}, &mockProfileRepo{})

	req, w := makeRequest(t, http.MethodGet, "/products/abc", nil, map[string]string{"id": "abc"})
	h.GetByID(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid route parameters", parseBody(t, w)["error"])
}

// ===== PATCH /products/{id} =====

func TestProductUpdate_TitleOnly(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockProductRepo{
		updateFn: func(_ context.Context, gotID, teamID uuid.UUID, fields product.UpdateFields) (*product.Product, error) {
			require.NotNil(t, fields.Title)
			assert.Equal(t, "X", *fields.Title)
			assert.Nil(t, fields.Description)
			p := sampleProduct(gotID, product.StatusDraft)
			p.Title = *fields.Title
			return p, nil
		},
	}
	h := newProductHandler(repo, &mockProfileRepo{})

	body, _ := json.Marshal(map[string]interface{}{"title": "X"})
	req, w := makeRequest(t, http.MethodPatch, "/products/"+id.String(), body, map[string]string{"id": id.String()})
	h.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseBody(t, w)["product"].(map[string]interface{})
	assert.Equal(t, "X", resp["title"])
	assert.Equal(t, "a widget", resp["description"])
}

func TestProductUpdate_NothingToUpdate(t *testing.T) {
	t.Parallel()

	h := newProductHandler(&mockProductRepo{}, &mockProfileRepo{})

	id := uuid.New()
	body, _ := json.Marshal(map[string]interface{}{})
	req, w := makeRequest(t, http.MethodPatch, "/products/"+id.String(), body, map[string]string{"id": id.String()})
	h.Update(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===== POST /products/{id}/activate =====

func TestProductActivate_Draft(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockProductRepo{
		activateFn: func(_ context.Context, gotID, _ uuid.UUID) (*product.Product, error) {
			return sampleProduct(gotID, product.StatusActive), nil
		},
	}
	h := newProductHandler(repo, &mockProfileRepo{})

	req, w := makeRequest(t, http.MethodPost, "/products/"+id.String()+"/activate", nil, map[string]string{"id": id.String()})
	h.Activate(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseBody(t, w)["product"].(map[string]interface{})
	assert.Equal(t, "active", resp["status"])
}

func TestProductActivate_NotDraft(t *testing.T) {
	t.Parallel()

	h := newProductHandler(&mockProductRepo{}, &mockProfileRepo{})

	id := uuid.New()
	req, w := makeRequest(t, http.MethodPost, "/products/"+id.String()+"/activate", nil, map[string]string{"id": id.String()})
	h.Activate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Product not found or not draft", parseBody(t, w)["error"])
}

// ===== POST /products/{id}/delete =====

func TestProductDelete_Success(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockProductRepo{
		softDeleteFn: func(_ context.Context, gotID, _ uuid.UUID) (*product.Product, error) {
			p := sampleProduct(gotID, product.StatusDeleted)
			now := time.Now().UTC()
			p.DeletedAt = &now
			return p, nil
		},
	}
	h := newProductHandler(repo, &mockProfileRepo{})

	req, w := makeRequest(t, http.MethodPost, "/products/"+id.String()+"/delete", nil, map[string]string{"id": id.String()})
	h.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseBody(t, w)["product"].(map[string]interface{})
	assert.Equal(t, "deleted", resp["status"])
	assert.NotNil(t, resp["deleted_at"])
}

func TestProductDelete_AlreadyDeleted(t *testing.T) {
	t.Parallel()

	h := newProductHandler(&mockProductRepo{}, &mockProfileRepo{})

	id := uuid.New()
	req, w := makeRequest(t, http.MethodPost, "/products/"+id.String()+"/delete", nil, map[string]string{"id": id.String()})
	h.Delete(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Product not found or already deleted", parseBody(t, w)["error"])
}
