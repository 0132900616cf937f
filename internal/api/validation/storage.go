package validation

import (
	"regexp"
	"strings"
)

const (
	// DefaultDownloadExpiry bounds come from the storage ACL policy: signed
	// URLs live between one minute and one hour.
	DefaultDownloadExpirySeconds = 600
	MinDownloadExpirySeconds     = 60
	MaxDownloadExpirySeconds     = 3600

	DefaultFilename    = "file"
	DefaultContentType = "application/octet-stream"
)

var extensionCleaner = regexp.MustCompile(`[^a-z0-9]`)

// SignedUploadRequest mirrors the fields of a signed upload request with
// defaults already applied.
type SignedUploadRequest struct {
	Filename    string
	ContentType string
}

// NormalizeSignedUploadRequest applies defaults to an upload request. There is
// nothing to reject: absent fields fall back to generic values.
func NormalizeSignedUploadRequest(filename, contentType string) SignedUploadRequest {
	req := SignedUploadRequest{
		Filename:    strings.TrimSpace(filename),
		ContentType: strings.TrimSpace(contentType),
	}
	if req.Filename == "" {
		req.Filename = DefaultFilename
	}
	if req.ContentType == "" {
		req.ContentType = DefaultContentType
	}
	return req
}

// FileExtension extracts a storage-safe extension from a filename: lowercase
// alphanumerics only, "bin" when the name has no usable extension.
func FileExtension(filename string) string {
	parts := strings.Split(filename, ".")
	if len(parts) < 2 {
		return "bin"
	}
	ext := extensionCleaner.ReplaceAllString(strings.ToLower(parts[len(parts)-1]), "")
	if ext == "" {
		return "bin"
	}
	return ext
}

// SignedDownloadRequest mirrors the fields needed for signed download validation.
type SignedDownloadRequest struct {
	Path      string
	ExpiresIn *int
}

// ValidateSignedDownloadRequest validates a signed download request and
// returns the clamped expiry in seconds.
func ValidateSignedDownloadRequest(req SignedDownloadRequest) (int, []FieldError) {
	var errs []FieldError

	if strings.TrimSpace(req.Path) == "" {
		errs = append(errs, FieldError{Field: "path", Message: "path is required"})
	}

	expiresIn := DefaultDownloadExpirySeconds
	if req.ExpiresIn != nil {
		expiresIn = *req.ExpiresIn
	}
	if expiresIn < MinDownloadExpirySeconds {
		expiresIn = MinDownloadExpirySeconds
	}
	if expiresIn > MaxDownloadExpirySeconds {
		expiresIn = MaxDownloadExpirySeconds
	}

	return expiresIn, errs
}
