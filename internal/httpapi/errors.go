package httpapi

import (
	"encoding/json"
	"net/http"

	"modelrt/internal/backend"
	"modelrt/internal/manager"
	"modelrt/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps well-known manager errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case manager.IsModelNotFound(err), manager.IsClipNotFound(err), manager.IsInstanceNotFound(err):
		return http.StatusNotFound
	case manager.IsDependencyUnavailable(err), backend.IsNoBackend(err):
		return http.StatusServiceUnavailable
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSONError(w, statusFor(err), err.Error())
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
