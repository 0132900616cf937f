package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorBody is the uniform failure envelope. Success bodies are the payload
// itself, with no wrapper.
type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code and payload.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// NoContent writes a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Err writes an error response with the standard {error} envelope.
func Err(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// ErrWithDetails writes an error response carrying structured details.
func ErrWithDetails(w http.ResponseWriter, status int, message string, details any) {
	JSON(w, status, errorBody{Error: message, Details: details})
}

// Unexpected writes a 500 with the failure captured in details. A bare 500
// with no diagnostic payload is useless in a glue layer, so the message is
// always included.
func Unexpected(w http.ResponseWriter, err error) {
	ErrWithDetails(w, http.StatusInternalServerError, "Unhandled error", map[string]string{
		"message": err.Error(),
	})
}
