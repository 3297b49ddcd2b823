package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mbraun/myflix-be/internal/models"
	"github.com/mbraun/myflix-be/internal/validation"
)

// respondJSON writes v as the JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps a service error onto an HTTP status. Unexpected
// errors become an opaque 500; the detail is only logged.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrConflict):
		respondJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Unexpected failure")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// respondViolations rejects a request whose payload failed validation.
// No store operation may run after this.
func respondViolations(w http.ResponseWriter, violations []validation.Violation) {
	respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"errors": violations,
	})
}
