package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/collectra/backend/internal/allocation"
	"github.com/collectra/backend/internal/casefile"
	"github.com/collectra/backend/internal/registry"
)

// writeError maps domain errors to HTTP status codes and writes a JSON body
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, casefile.ErrCaseNotFound), errors.Is(err, registry.ErrAgentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, casefile.ErrInvalidTransition), errors.Is(err, registry.ErrCapacityExceeded):
		status = http.StatusConflict
	case errors.Is(err, allocation.ErrDataIntegrity):
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
