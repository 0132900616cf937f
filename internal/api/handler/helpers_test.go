package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/catalogd/catalogd/internal/api/middleware"
	"github.com/catalogd/catalogd/internal/auth"
	"github.com/catalogd/catalogd/internal/product"
	"github.com/catalogd/catalogd/internal/profile"
	"github.com/catalogd/catalogd/internal/team"
)

// --- Mock Profile Repository ---

type mockProfileRepo struct {
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
	ensureFn     func(ctx context.Context, id uuid.UUID, fullName, email string) (*profile.Profile, error)
	listByTeamFn func(ctx context.Context, teamID uuid.UUID) ([]profile.Profile, error)
}

func (m *mockProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return sampleProfile(id, &testTeamID), nil
}

func (m *mockProfileRepo) Ensure(ctx context.Context, id uuid.UUID, fullName, email string) (*profile.Profile, error) {
	if m.ensureFn != nil {
		return m.ensureFn(ctx, id, fullName, email)
	}
	return sampleProfile(id, &testTeamID), nil
}

func (m *mockProfileRepo) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]profile.Profile, error) {
	if m.listByTeamFn != nil {
		return m.listByTeamFn(ctx, teamID)
	}
	return []profile.Profile{}, nil
}

// --- Mock Team Repository ---

type mockTeamRepo struct {
	getByIDFn func(ctx context.Context, id uuid.UUID) (*team.Team, error)
	createFn  func(ctx context.Context, name string, userID uuid.UUID) (*team.Team, error)
	joinFn    func(ctx context.Context, inviteCode string, userID uuid.UUID) (*team.Team, error)
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return sampleTeam(id), nil
}

func (m *mockTeamRepo) Create(ctx context.Context, name string, userID uuid.UUID) (*team.Team, error) {
	if m.createFn != nil {
		return m.createFn(ctx, name, userID)
	}
	t := sampleTeam(uuid.New())
	t.Name = name
	return t, nil
}

func (m *mockTeamRepo) Join(ctx context.Context, inviteCode string, userID uuid.UUID) (*team.Team, error) {
	if m.joinFn != nil {
		return m.joinFn(ctx, inviteCode, userID)
	}
	return sampleTeam(uuid.New()), nil
}

// --- Mock Product Repository ---

type mockProductRepo struct {
	createFn     func(ctx context.Context, p *product.Product) error
	getByIDFn    func(ctx context.Context, id, teamID uuid.UUID) (*product.Product, error)
	listFn       func(ctx context.Context, teamID uuid.UUID, filter product.ListFilter) (*product.ListResult, error)
	updateFn     func(ctx context.Context, id, teamID uuid.UUID, fields product.UpdateFields) (*product.Product, error)
	activateFn   func(ctx context.Context, id, teamID uuid.UUID) (*product.Product, error)
	softDeleteFn func(ctx context.Context, id, teamID uuid.UUID) (*product.Product, error)
}

func (m *mockProductRepo) Create(ctx context.Context, p *product.Product) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	p.ID = uuid.New()
	p.Status = product.StatusDraft
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	return nil
}

func (m *mockProductRepo) GetByID(ctx context.Context, id, teamID uuid.UUID) (*product.Product, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id, teamID)
	}
	return nil, product.ErrNotFound
}

func (m *mockProductRepo) List(ctx context.Context, teamID uuid.UUID, filter product.ListFilter) (*product.ListResult, error) {
	if m.listFn != nil {
		return m.listFn(ctx, teamID, filter)
	}
	return &product.ListResult{Products: []product.Product{}, Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (m *mockProductRepo) Update(ctx context.Context, id, teamID uuid.UUID, fields product.UpdateFields) (*product.Product, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, teamID, fields)
	}
	return nil, product.ErrNotFound
}

func (m *mockProductRepo) Activate(ctx context.Context, id, teamID uuid.UUID) (*product.Product, error) {
	if m.activateFn != nil {
		return m.activateFn(ctx, id, teamID)
	}
	return nil, product.ErrNotDraft
}

func (m *mockProductRepo) SoftDelete(ctx context.Context, id, teamID uuid.UUID) (*product.Product, error) {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, id, teamID)
	}
	return nil, product.ErrNotFound
}

// --- Helpers ---

var (
	testUserID = uuid.New()
	testTeamID = uuid.New()
)

func testIdentity() *auth.Identity {
	return &auth.Identity{UserID: testUserID, Email: "ada@example.com", FullName: "Ada"}
}

func sampleProfile(id uuid.UUID, teamID *uuid.UUID) *profile.Profile {
	name := "Ada"
	email := "ada@example.com"
	return &profile.Profile{
		ID:        id,
		FullName:  &name,
		Email:     &email,
		TeamID:    teamID,
		CreatedAt: time.Now().UTC(),
	}
}

func sampleTeam(id uuid.UUID) *team.Team {
	return &team.Team{
		ID:         id,
		Name:       "acme",
		InviteCode: "XK42PW9QRM",
		CreatedAt:  time.Now().UTC(),
	}
}

func sampleProduct(id uuid.UUID, status string) *product.Product {
	now := time.Now().UTC()
	desc := "a widget"
	return &product.Product{
		ID:          id,
		TeamID:      testTeamID,
		Title:       "Widget",
		Description: &desc,
		Status:      status,
		CreatedBy:   testUserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// makeRequest builds an authenticated request with optional chi URL params.
func makeRequest(t *testing.T, method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	ctx := middleware.WithIdentity(req.Context(), testIdentity())

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx), httptest.NewRecorder()
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err, "failed to parse response body")
	return body
}
