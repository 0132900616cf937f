package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/catalogd/catalogd/internal/api/response"
)

// Pinger reports connectivity to a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthData struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database bool   `json:"database"`
	Presence *bool  `json:"presence,omitempty"`
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db       Pinger
	presence Pinger // nil when presence is not configured
	version  string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db, presence Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, presence: presence, version: version}
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	data := healthData{Status: "healthy", Version: h.version, Database: true}

	if err := h.db.Ping(ctx); err != nil {
		data.Status = "degraded"
		data.Database = false
	}

	if h.presence != nil {
		ok := h.presence.Ping(ctx) == nil
		data.Presence = &ok
		if !ok {
			data.Status = "degraded"
		}
	}

	response.JSON(w, http.StatusOK, data)
}
