package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"
	"trip-log-service/internal/services"
)

// Request bodies are small JSON objects.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps service and repository errors to HTTP statuses.
// Unexpected errors are logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var inv *services.InvalidInputError
	switch {
	case errors.As(err, &inv):
		writeError(w, r, http.StatusBadRequest, inv.Error())
	case errors.Is(err, ports.ErrTripNotFound):
		writeError(w, r, http.StatusNotFound, "trip not found")
	default:
		log.Printf("%s failed: req_id=%s err=%v", op, obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes exactly one JSON object with no unknown fields into v.
// On failure it writes a 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}
