package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/catalogd/catalogd/internal/api/handler"
	"github.com/catalogd/catalogd/internal/api/middleware"
	"github.com/catalogd/catalogd/internal/api/response"
	"github.com/catalogd/catalogd/internal/presence"
	"github.com/catalogd/catalogd/internal/product"
	"github.com/catalogd/catalogd/internal/profile"
	"github.com/catalogd/catalogd/internal/storage"
	"github.com/catalogd/catalogd/internal/team"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Verifier    middleware.TokenVerifier
	ProfileRepo profile.Repository
	TeamRepo    team.Repository
	ProductRepo product.Repository
	Storage     storage.ObjectStorage // nil disables storage endpoints
	Presence    presence.Tracker      // nil disables presence endpoints
	DBPinger    handler.Pinger
	RedisPinger handler.Pinger
	RoutePrefix string
	CORSOrigin  string
	Version     string
}

// NewRouter creates and configures a chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(deps.CORSOrigin))
	r.Use(middleware.StripRoutePrefix(deps.RoutePrefix))
	r.Use(chimiddleware.StripSlashes)
	r.Use(chimiddleware.Logger)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Err(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Err(w, http.StatusNotFound, "Not found")
	})

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.RedisPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	meHandler := handler.NewMeHandler(deps.ProfileRepo, deps.TeamRepo)
	teamHandler := handler.NewTeamHandler(deps.TeamRepo, deps.ProfileRepo)
	productHandler := handler.NewProductHandler(deps.ProductRepo, deps.ProfileRepo)
	storageHandler := handler.NewStorageHandler(deps.Storage, deps.ProfileRepo)
	presenceHandler := handler.NewPresenceHandler(deps.Presence, deps.ProfileRepo)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.Verifier))

		r.Get("/me", meHandler.Get)

		r.Route("/team", func(r chi.Router) {
			r.Post("/create", teamHandler.Create)
			r.Post("/join", teamHandler.Join)
			r.Get("/members", teamHandler.Members)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Post("/", productHandler.Create)
			r.Get("/{id}", productHandler.GetByID)
			r.Patch("/{id}", productHandler.Update)
			r.Post("/{id}/activate", productHandler.Activate)
			r.Post("/{id}/delete", productHandler.Delete)
		})

		r.Route("/storage", func(r chi.Router) {
			r.Post("/signed-upload", storageHandler.SignedUpload)
			r.Post("/signed-download", storageHandler.SignedDownload)
		})

		r.Route("/presence", func(r chi.Router) {
			r.Get("/", presenceHandler.List)
			r.Post("/heartbeat", presenceHandler.Heartbeat)
			r.Post("/leave", presenceHandler.Leave)
		})
	})

	return r
}
