package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/collectra/backend/internal/casefile"
	"github.com/collectra/backend/internal/types"
)

// CaseHandler provides REST endpoints for the case lifecycle
type CaseHandler struct {
	service *casefile.Service
	logger  zerolog.Logger
}

// NewCaseHandler creates a new CaseHandler
func NewCaseHandler(service *casefile.Service, logger zerolog.Logger) *CaseHandler {
	return &CaseHandler{
		service: service,
		logger:  logger.With().Str("component", "case_handler").Logger(),
	}
}

// CreateCase handles POST /api/cases
func (h *CaseHandler) CreateCase(w http.ResponseWriter, r *http.Request) {
	var intake casefile.CaseIntake
	if err := json.NewDecoder(r.Body).Decode(&intake); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if intake.DebtorRef == "" || intake.Region == "" {
		http.Error(w, `{"error":"debtorRef and region are required"}`, http.StatusBadRequest)
		return
	}
	if intake.Amount <= 0 || intake.AgeDays < 0 {
		http.Error(w, `{"error":"amount must be positive and ageDays non-negative"}`, http.StatusBadRequest)
		return
	}

	c, err := h.service.Ingest(intake)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// GetCase handles GET /api/cases/{caseId}
func (h *CaseHandler) GetCase(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseId")

	c, err := h.service.GetCase(caseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ListCases handles GET /api/cases?agentId=&status=
func (h *CaseHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	filter := casefile.ListFilter{
		AgentID: r.URL.Query().Get("agentId"),
		Status:  types.CaseStatus(r.URL.Query().Get("status")),
	}
	writeJSON(w, http.StatusOK, h.service.ListCases(filter))
}

// LogInteraction handles POST /api/cases/{caseId}/interactions
func (h *CaseHandler) LogInteraction(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseId")

	var req struct {
		Type    types.InteractionType   `json:"type"`
		Result  types.InteractionResult `json:"result"`
		Details string                  `json:"details,omitempty"`
		AgentID string                  `json:"agentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Type == "" || req.Result == "" || req.AgentID == "" {
		http.Error(w, `{"error":"type, result and agentId are required"}`, http.StatusBadRequest)
		return
	}

	c, err := h.service.LogInteraction(caseID, req.Type, req.Details, req.Result, req.AgentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// LogDocument handles POST /api/cases/{caseId}/documents
func (h *CaseHandler) LogDocument(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseId")

	var req struct {
		FileName   string `json:"fileName"`
		Type       string `json:"type"`
		Content    string `json:"content,omitempty"`
		UploadedBy string `json:"uploadedBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.FileName == "" || req.UploadedBy == "" {
		http.Error(w, `{"error":"fileName and uploadedBy are required"}`, http.StatusBadRequest)
		return
	}

	c, err := h.service.LogDocument(caseID, req.FileName, req.Type, req.Content, req.UploadedBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Escalate handles POST /api/cases/{caseId}/escalate
func (h *CaseHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseId")

	var req struct {
		Reason     string `json:"reason"`
		TargetRole string `json:"targetRole"`
		ActorID    string `json:"actorId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Reason == "" || req.TargetRole == "" {
		http.Error(w, `{"error":"reason and targetRole are required"}`, http.StatusBadRequest)
		return
	}

	c, err := h.service.Escalate(caseID, req.Reason, req.TargetRole, req.ActorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Resolve handles POST /api/cases/{caseId}/resolve
func (h *CaseHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseId")

	var req struct {
		Type            types.ResolutionType `json:"type"`
		RecoveredAmount float64              `json:"recoveredAmount"`
		Notes           string               `json:"notes,omitempty"`
		ActorID         string               `json:"actorId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	switch req.Type {
	case types.ResolutionRecovered, types.ResolutionWrittenOff, types.ResolutionSettled:
	default:
		http.Error(w, `{"error":"type must be RECOVERED, WRITTEN_OFF or SETTLED"}`, http.StatusBadRequest)
		return
	}
	if req.RecoveredAmount < 0 {
		http.Error(w, `{"error":"recoveredAmount must be non-negative"}`, http.StatusBadRequest)
		return
	}

	c, err := h.service.Resolve(caseID, req.Type, req.RecoveredAmount, req.Notes, req.ActorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Reallocate handles POST /api/cases/{caseId}/reallocate
func (h *CaseHandler) Reallocate(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseId")

	var req struct {
		AgentID string `json:"agentId"`
		ActorID string `json:"actorId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.AgentID == "" {
		http.Error(w, `{"error":"agentId is required"}`, http.StatusBadRequest)
		return
	}

	c, err := h.service.ManualReallocate(caseID, req.AgentID, req.ActorID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info().
		Str("case_id", caseID).
		Str("agent_id", req.AgentID).
		Str("actor", req.ActorID).
		Msg("case reallocated via API")

	writeJSON(w, http.StatusOK, c)
}
