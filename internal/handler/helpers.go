package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wojp/backoffice/internal/model"
	"github.com/wojp/backoffice/internal/service"
	"github.com/wojp/backoffice/internal/store"
)

// writeJSON serializes v and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the standard error envelope. Messages are user-facing:
// no stack traces, no internal paths, no secrets.
func writeError(w http.ResponseWriter, code int, status, message string) {
	writeJSON(w, code, model.ErrorResponse{
		Error: model.ErrorDetail{
			Code:    code,
			Status:  status,
			Message: message,
		},
	})
}

// writeServiceError maps service and store errors to HTTP responses.
// Branching is on error identity, never on message text.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, model.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "This email address is already in use")
	case errors.Is(err, service.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Password must be at least 8 characters")
	case errors.Is(err, service.ErrPasswordMismatch):
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Password confirmation does not match")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, model.StatusNotFound, "Resource not found")
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "A resource with the same unique value already exists")
	case errors.Is(err, store.ErrUnavailable):
		writeError(w, http.StatusInternalServerError, model.StatusInternal, "Database unavailable; check the database configuration")
	default:
		writeError(w, http.StatusInternalServerError, model.StatusInternal, "Internal server error")
	}
}

// readJSON decodes the request body into v.
func readJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// urlID extracts the named chi URL parameter as an int64, or 0 on failure.
func urlID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// queryInt extracts an integer query parameter, returning defaultVal when
// the parameter is missing or unparseable.
func queryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
