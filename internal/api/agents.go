package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/collectra/backend/internal/casefile"
	"github.com/collectra/backend/internal/registry"
	"github.com/collectra/backend/internal/storage"
	"github.com/collectra/backend/internal/types"
)

// AgentHandler provides REST endpoints for the agency roster and history
type AgentHandler struct {
	registry *registry.AgentRegistry
	service  *casefile.Service
	store    storage.Store
	logger   zerolog.Logger
}

// NewAgentHandler creates a new AgentHandler
func NewAgentHandler(reg *registry.AgentRegistry, service *casefile.Service, store storage.Store, logger zerolog.Logger) *AgentHandler {
	return &AgentHandler{
		registry: reg,
		service:  service,
		store:    store,
		logger:   logger.With().Str("component", "agent_handler").Logger(),
	}
}

// ListAgents handles GET /api/agents
func (h *AgentHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.ListAll())
}

// GetAgent handles GET /api/agents/{agentId}
func (h *AgentHandler) GetAgent(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")

	agent, err := h.registry.Get(agentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

// GetAgentCases handles GET /api/agents/{agentId}/cases
func (h *AgentHandler) GetAgentCases(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")

	if _, err := h.registry.Get(agentID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.ListCases(casefile.ListFilter{AgentID: agentID}))
}

// GetHistory returns archived daily stats for the given agent
// GET /api/agents/{agentId}/history
func (h *AgentHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")
	if agentID == "" {
		http.Error(w, "agentId is required", http.StatusBadRequest)
		return
	}

	stats, err := h.store.GetAgentStats(agentID)
	if err != nil {
		h.logger.Error().Err(err).Str("agent_id", agentID).Msg("failed to get agent stats")
		http.Error(w, "failed to retrieve history", http.StatusInternalServerError)
		return
	}

	if stats == nil {
		stats = []types.AgentRecoveryStats{}
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetResolvedCases returns archived case records for the given agent and date
// GET /api/agents/{agentId}/resolved?date=YYYY-MM-DD
func (h *AgentHandler) GetResolvedCases(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")
	if agentID == "" {
		http.Error(w, "agentId is required", http.StatusBadRequest)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date query parameter is required (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	records, err := h.store.GetAgentCasesByDate(agentID, date)
	if err != nil {
		h.logger.Error().Err(err).
			Str("agent_id", agentID).
			Str("date", date).
			Msg("failed to get agent case records")
		http.Error(w, "failed to retrieve resolved cases", http.StatusInternalServerError)
		return
	}

	if records == nil {
		records = []types.CaseRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
