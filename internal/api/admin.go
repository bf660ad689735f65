package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/collectra/backend/internal/casefile"
	"github.com/collectra/backend/internal/storage"
	"github.com/collectra/backend/internal/types"
)

// AdminHandler handles archive queries and operational resets
type AdminHandler struct {
	service *casefile.Service
	store   storage.Store
	logger  zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service *casefile.Service, store storage.Store, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		store:   store,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// GetCaseRecords returns archived case records for a resolution date
// GET /api/admin/records?date=YYYY-MM-DD
func (h *AdminHandler) GetCaseRecords(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date query parameter is required (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	records, err := h.store.GetCaseRecords(date)
	if err != nil {
		h.logger.Error().Err(err).Str("date", date).Msg("failed to get case records")
		http.Error(w, "failed to retrieve records", http.StatusInternalServerError)
		return
	}

	if records == nil {
		records = []types.CaseRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// RetryAllocations forces an immediate allocation pass over queued cases
// POST /api/admin/retry-allocations
func (h *AdminHandler) RetryAllocations(w http.ResponseWriter, r *http.Request) {
	allocated := h.service.RetryPending()

	h.logger.Info().Int("allocated", allocated).Msg("allocation retry triggered via admin")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "allocation retry complete",
		"allocated": allocated,
	})
}

// WipeDynamo truncates all DynamoDB tables
func (h *AdminHandler) WipeDynamo(w http.ResponseWriter, r *http.Request) {
	if err := h.store.TruncateAll(); err != nil {
		h.logger.Error().Err(err).Msg("failed to truncate DynamoDB tables")
		http.Error(w, fmt.Sprintf(`{"error":"failed to truncate: %s"}`, err), http.StatusInternalServerError)
		return
	}

	h.logger.Info().Msg("DynamoDB tables truncated")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "DynamoDB tables truncated",
	})
}
