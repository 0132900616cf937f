package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/catalogd/catalogd/internal/api/middleware"
	"github.com/catalogd/catalogd/internal/api/response"
	"github.com/catalogd/catalogd/internal/api/validation"
	"github.com/catalogd/catalogd/internal/profile"
	"github.com/catalogd/catalogd/internal/storage"
)

type signedUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

type signedUploadResponse struct {
	Path        string `json:"path"`
	Token       string `json:"token"`
	SignedURL   string `json:"signedUrl"`
	ContentType string `json:"contentType"`
}

type signedDownloadRequest struct {
	Path      string `json:"path"`
	ExpiresIn *int   `json:"expiresIn"`
}

type signedDownloadResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
}

// StorageHandler issues signed URLs for direct object uploads and downloads.
type StorageHandler struct {
	store       storage.ObjectStorage
	profileRepo profile.Repository
}

// NewStorageHandler creates a new StorageHandler. store may be nil when no
// object storage is configured; both endpoints then return 503.
func NewStorageHandler(store storage.ObjectStorage, profileRepo profile.Repository) *StorageHandler {
	return &StorageHandler{store: store, profileRepo: profileRepo}
}

func (h *StorageHandler) enabled(w http.ResponseWriter) bool {
	if h.store == nil {
		response.Err(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return false
	}
	return true
}

// SignedUpload handles POST /storage/signed-upload. Object keys are
// namespaced under the caller's team id, which is what the storage ACL
// policy keys on.
func (h *StorageHandler) SignedUpload(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}

	identity := middleware.GetIdentity(r.Context())

	var req signedUploadRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.Err(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	norm := validation.NormalizeSignedUploadRequest(req.Filename, req.ContentType)

	teamID, err := resolveTeam(r.Context(), h.profileRepo, identity)
	if err != nil {
		if errors.Is(err, errNoTeam) {
			response.Err(w, http.StatusBadRequest, "User has no team")
			return
		}
		slog.Error("failed to resolve team", "error", err, "userId", identity.UserID)
		response.Unexpected(w, err)
		return
	}

	path := fmt.Sprintf("%s/%s.%s", teamID, uuid.New(), validation.FileExtension(norm.Filename))

	grant, err := h.store.SignUpload(r.Context(), path, norm.ContentType)
	if err != nil {
		slog.Error("failed to sign upload URL", "error", err, "path", path)
		response.Err(w, http.StatusBadRequest, "Failed to create signed upload URL")
		return
	}

	response.JSON(w, http.StatusOK, signedUploadResponse{
		Path:        grant.Path,
		Token:       grant.Token,
		SignedURL:   grant.SignedURL,
		ContentType: norm.ContentType,
	})
}

// SignedDownload handles POST /storage/signed-download.
func (h *StorageHandler) SignedDownload(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}

	identity := middleware.GetIdentity(r.Context())

	var req signedDownloadRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.Err(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	expiresIn, fieldErrors := validation.ValidateSignedDownloadRequest(validation.SignedDownloadRequest{
		Path:      req.Path,
		ExpiresIn: req.ExpiresIn,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "Invalid request body", fieldErrors)
		return
	}

	if _, err := resolveTeam(r.Context(), h.profileRepo, identity); err != nil {
		if errors.Is(err, errNoTeam) {
			response.Err(w, http.StatusBadRequest, "User has no team")
			return
		}
		slog.Error("failed to resolve team", "error", err, "userId", identity.UserID)
		response.Unexpected(w, err)
		return
	}

	grant, err := h.store.SignDownload(r.Context(), req.Path, time.Duration(expiresIn)*time.Second)
	if err != nil {
		slog.Error("failed to sign download URL", "error", err, "path", req.Path)
		response.Err(w, http.StatusBadRequest, "Failed to create signed url")
		return
	}

	response.JSON(w, http.StatusOK, signedDownloadResponse{
		URL:       grant.URL,
		ExpiresIn: expiresIn,
	})
}
