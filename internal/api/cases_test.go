package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectra/backend/internal/allocation"
	"github.com/collectra/backend/internal/casefile"
	"github.com/collectra/backend/internal/idgen"
	"github.com/collectra/backend/internal/registry"
	"github.com/collectra/backend/internal/risk"
	"github.com/collectra/backend/internal/sla"
	"github.com/collectra/backend/internal/storage"
	"github.com/collectra/backend/internal/types"
)

type constantNoise struct{}

func (constantNoise) Float64() float64 { return 0.5 }

func newTestRouter(t *testing.T) (*chi.Mux, *casefile.Service) {
	t.Helper()
	logger := zerolog.Nop()

	reg := registry.NewAgentRegistry(logger)
	reg.Provision(&types.Agent{
		AgentID:         "DCA-001",
		Name:            "Meridian Recovery Partners",
		Capacity:        10,
		RecoveryRate:    0.7,
		Region:          "north",
		ComplianceScore: 0.95,
	})

	service := casefile.NewService(
		reg,
		risk.NewClassifier(constantNoise{}),
		allocation.NewEngine(reg, logger),
		sla.NewScheduler(),
		idgen.NewSequence(),
		logger,
	)

	store := storage.NewNoopStore()
	cases := NewCaseHandler(service, logger)
	agents := NewAgentHandler(reg, service, store, logger)
	slaHandler := NewSLAHandler(service, logger)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/cases", func(r chi.Router) {
			r.Post("/", cases.CreateCase)
			r.Get("/", cases.ListCases)
			r.Route("/{caseId}", func(r chi.Router) {
				r.Get("/", cases.GetCase)
				r.Post("/interactions", cases.LogInteraction)
				r.Post("/documents", cases.LogDocument)
				r.Post("/escalate", cases.Escalate)
				r.Post("/resolve", cases.Resolve)
				r.Post("/reallocate", cases.Reallocate)
			})
		})
		r.Route("/agents", func(r chi.Router) {
			r.Get("/", agents.ListAgents)
			r.Get("/{agentId}", agents.GetAgent)
			r.Get("/{agentId}/cases", agents.GetAgentCases)
		})
		r.Get("/sla/status", slaHandler.GetStatus)
	})
	return r, service
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createCase(t *testing.T, router http.Handler) types.Case {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/cases", map[string]interface{}{
		"debtorRef": "ACME-001",
		"amount":    30000,
		"ageDays":   90,
		"region":    "north",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var c types.Case
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	return c
}

func TestCreateCase(t *testing.T) {
	router, _ := newTestRouter(t)

	c := createCase(t, router)
	assert.NotEmpty(t, c.CaseID)
	assert.Equal(t, types.TierMedium, c.Tier)
	assert.Equal(t, types.StatusAllocated, c.Status)
	assert.Equal(t, "DCA-001", c.AllocatedAgent)
}

func TestCreateCaseValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing debtorRef", map[string]interface{}{"amount": 100, "ageDays": 1, "region": "north"}},
		{"missing region", map[string]interface{}{"debtorRef": "A", "amount": 100, "ageDays": 1}},
		{"zero amount", map[string]interface{}{"debtorRef": "A", "amount": 0, "ageDays": 1, "region": "north"}},
		{"negative age", map[string]interface{}{"debtorRef": "A", "amount": 100, "ageDays": -1, "region": "north"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/cases", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetCaseNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/cases/CASE-404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInteractionFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	c := createCase(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/cases/"+c.CaseID+"/interactions", map[string]interface{}{
		"type":    "EMAIL",
		"result":  "CALLBACK",
		"details": "sent payment plan",
		"agentId": "DCA-001",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated types.Case
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, types.StatusInProgress, updated.Status)
	assert.Len(t, updated.Interactions, 1)
}

func TestResolveThenMutateConflicts(t *testing.T) {
	router, _ := newTestRouter(t)
	c := createCase(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/cases/"+c.CaseID+"/resolve", map[string]interface{}{
		"type":            "RECOVERED",
		"recoveredAmount": 25000,
		"actorId":         "DCA-001",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/cases/"+c.CaseID+"/interactions", map[string]interface{}{
		"type":    "CALL",
		"result":  "SUCCESS",
		"agentId": "DCA-001",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestResolveRejectsUnknownType(t *testing.T) {
	router, _ := newTestRouter(t)
	c := createCase(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/cases/"+c.CaseID+"/resolve", map[string]interface{}{
		"type":    "DELETED",
		"actorId": "DCA-001",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReallocateUnknownAgent(t *testing.T) {
	router, _ := newTestRouter(t)
	c := createCase(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/cases/"+c.CaseID+"/reallocate", map[string]interface{}{
		"agentId": "DCA-404",
		"actorId": "supervisor-1",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCasesByAgent(t *testing.T) {
	router, _ := newTestRouter(t)
	createCase(t, router)
	createCase(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/cases?agentId=DCA-001", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cases []types.Case
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cases))
	assert.Len(t, cases, 2)

	rec = doJSON(t, router, http.MethodGet, "/api/cases?agentId=DCA-999", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cases))
	assert.Empty(t, cases)
}

func TestAgentEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	c := createCase(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/agents", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var agents []types.Agent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agents))
	require.Len(t, agents, 1)
	assert.Equal(t, 1, agents[0].Load)

	rec = doJSON(t, router, http.MethodGet, "/api/agents/DCA-001/cases", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cases []types.Case
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cases))
	require.Len(t, cases, 1)
	assert.Equal(t, c.CaseID, cases[0].CaseID)

	rec = doJSON(t, router, http.MethodGet, "/api/agents/DCA-404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSLAStatusEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	createCase(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/sla/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Evaluated int                  `json:"evaluated"`
		Breached  int                  `json:"breached"`
		Cases     []types.BreachStatus `json:"cases"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Evaluated)
	assert.Zero(t, resp.Breached)
	require.Len(t, resp.Cases, 1)
	assert.False(t, resp.Cases[0].Breached)
}
