package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/collectra/backend/internal/casefile"
)

// SLAHandler exposes the on-demand SLA evaluation sweep
type SLAHandler struct {
	service *casefile.Service
	logger  zerolog.Logger
}

// NewSLAHandler creates a new SLAHandler
func NewSLAHandler(service *casefile.Service, logger zerolog.Logger) *SLAHandler {
	return &SLAHandler{
		service: service,
		logger:  logger.With().Str("component", "sla_handler").Logger(),
	}
}

// GetStatus handles GET /api/sla/status. The sweep is the same one the
// background monitor runs, so calling it also records fresh breaches.
func (h *SLAHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	statuses := h.service.EvaluateSLA(time.Now())

	breached := 0
	for _, s := range statuses {
		if s.Breached {
			breached++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"evaluated": len(statuses),
		"breached":  breached,
		"cases":     statuses,
	})
}
