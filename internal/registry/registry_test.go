package registry

import (
	"errors"
	"testing"

	"github.com/collectra/backend/internal/types"
	"github.com/rs/zerolog"
)

func newTestRegistry() *AgentRegistry {
	r := NewAgentRegistry(zerolog.Nop())
	r.Provision(&types.Agent{
		AgentID:         "DCA-001",
		Name:            "Test Agency",
		Capacity:        2,
		RecoveryRate:    0.7,
		Region:          "north",
		ComplianceScore: 0.9,
	})
	return r
}

func TestReserveIncrementsLoadAndCaseList(t *testing.T) {
	r := newTestRegistry()

	if err := r.Reserve("DCA-001", "CASE-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	agent, err := r.Get("DCA-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agent.Load != 1 {
		t.Errorf("expected load 1, got %d", agent.Load)
	}
	if len(agent.AssignedCases) != agent.Load {
		t.Errorf("load %d does not match case list length %d", agent.Load, len(agent.AssignedCases))
	}
	if agent.AssignedCases[0] != "CASE-1" {
		t.Errorf("expected CASE-1 in case list, got %v", agent.AssignedCases)
	}
}

func TestReserveAtCapacityFails(t *testing.T) {
	r := newTestRegistry()

	if err := r.Reserve("DCA-001", "CASE-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Reserve("DCA-001", "CASE-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := r.Reserve("DCA-001", "CASE-3")
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}

	// Load must be unchanged after the failed reservation
	agent, _ := r.Get("DCA-001")
	if agent.Load != 2 || len(agent.AssignedCases) != 2 {
		t.Errorf("expected load 2 with 2 cases, got %d/%d", agent.Load, len(agent.AssignedCases))
	}
}

func TestReleaseRemovesCase(t *testing.T) {
	r := newTestRegistry()
	r.Reserve("DCA-001", "CASE-1")
	r.Reserve("DCA-001", "CASE-2")

	if err := r.Release("DCA-001", "CASE-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	agent, _ := r.Get("DCA-001")
	if agent.Load != 1 {
		t.Errorf("expected load 1 after release, got %d", agent.Load)
	}
	if len(agent.AssignedCases) != 1 || agent.AssignedCases[0] != "CASE-2" {
		t.Errorf("expected only CASE-2 remaining, got %v", agent.AssignedCases)
	}
}

func TestReleaseUnknownCaseIsNoop(t *testing.T) {
	r := newTestRegistry()
	r.Reserve("DCA-001", "CASE-1")

	if err := r.Release("DCA-001", "CASE-99"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	agent, _ := r.Get("DCA-001")
	if agent.Load != 1 {
		t.Errorf("expected load 1, got %d", agent.Load)
	}
}

func TestListAvailableExcludesSaturated(t *testing.T) {
	r := newTestRegistry()
	r.Provision(&types.Agent{AgentID: "DCA-002", Capacity: 1, Region: "south"})

	r.Reserve("DCA-002", "CASE-1")

	available := r.ListAvailable()
	if len(available) != 1 {
		t.Fatalf("expected 1 available agent, got %d", len(available))
	}
	if available[0].AgentID != "DCA-001" {
		t.Errorf("expected DCA-001, got %s", available[0].AgentID)
	}
}

func TestListAvailableOrderedByID(t *testing.T) {
	r := NewAgentRegistry(zerolog.Nop())
	r.Provision(&types.Agent{AgentID: "DCA-003", Capacity: 5})
	r.Provision(&types.Agent{AgentID: "DCA-001", Capacity: 5})
	r.Provision(&types.Agent{AgentID: "DCA-002", Capacity: 5})

	available := r.ListAvailable()
	for i, want := range []string{"DCA-001", "DCA-002", "DCA-003"} {
		if available[i].AgentID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, available[i].AgentID)
		}
	}
}

func TestUnknownAgentErrors(t *testing.T) {
	r := newTestRegistry()

	if _, err := r.Get("DCA-999"); !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("expected ErrAgentNotFound from Get, got %v", err)
	}
	if err := r.Reserve("DCA-999", "CASE-1"); !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("expected ErrAgentNotFound from Reserve, got %v", err)
	}
	if err := r.RecordBreach("DCA-999"); !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("expected ErrAgentNotFound from RecordBreach, got %v", err)
	}
}

func TestRecordBreachAndRecovery(t *testing.T) {
	r := newTestRegistry()

	r.RecordBreach("DCA-001")
	r.RecordBreach("DCA-001")
	r.RecordRecovery("DCA-001", 5000)
	r.RecordRecovery("DCA-001", 1250.50)

	agent, _ := r.Get("DCA-001")
	if agent.SLABreaches != 2 {
		t.Errorf("expected 2 breaches, got %d", agent.SLABreaches)
	}
	if agent.TotalRecovered != 6250.50 {
		t.Errorf("expected 6250.50 recovered, got %.2f", agent.TotalRecovered)
	}
}

func TestSnapshotsDoNotAliasRegistryState(t *testing.T) {
	r := newTestRegistry()
	r.Reserve("DCA-001", "CASE-1")

	agent, _ := r.Get("DCA-001")
	agent.AssignedCases[0] = "CASE-TAMPERED"

	fresh, _ := r.Get("DCA-001")
	if fresh.AssignedCases[0] != "CASE-1" {
		t.Error("mutating a snapshot leaked into the registry")
	}
}

func TestDefaultRosterProvisioning(t *testing.T) {
	r := NewAgentRegistry(zerolog.Nop())
	ProvisionDefaultRoster(r)

	if r.Count() != len(DefaultRoster()) {
		t.Errorf("expected %d agents, got %d", len(DefaultRoster()), r.Count())
	}
	for _, a := range r.ListAll() {
		if a.Load != 0 {
			t.Errorf("agent %s: expected zero load at startup, got %d", a.AgentID, a.Load)
		}
		if a.Capacity <= 0 {
			t.Errorf("agent %s: capacity must be positive", a.AgentID)
		}
	}
}
