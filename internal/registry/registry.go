package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/collectra/backend/internal/types"
	"github.com/rs/zerolog"
)

var (
	// ErrAgentNotFound is returned when an agent id is unknown to the registry
	ErrAgentNotFound = errors.New("agent not found")

	// ErrCapacityExceeded is a defensive integrity check: callers are expected
	// to filter by ListAvailable before reserving, so hitting this indicates a
	// caller bug rather than a normal saturation path.
	ErrCapacityExceeded = errors.New("agent capacity exceeded")
)

// AgentRegistry holds all collection agents and owns the (load, case-list)
// pair of each. A reservation and its case-list append are indivisible under
// the registry lock.
type AgentRegistry struct {
	agents map[string]*types.Agent
	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewAgentRegistry creates an empty registry
func NewAgentRegistry(logger zerolog.Logger) *AgentRegistry {
	return &AgentRegistry{
		agents: make(map[string]*types.Agent),
		logger: logger.With().Str("component", "registry").Logger(),
	}
}

// Provision adds an agent to the registry. Agents are provisioned at startup;
// the engine never creates them dynamically.
func (r *AgentRegistry) Provision(agent *types.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := *agent
	if a.AssignedCases == nil {
		a.AssignedCases = make([]string, 0)
	}
	a.Load = len(a.AssignedCases)
	r.agents[a.AgentID] = &a

	r.logger.Debug().
		Str("agent_id", a.AgentID).
		Int("capacity", a.Capacity).
		Str("region", a.Region).
		Msg("agent provisioned")
}

// Get returns a snapshot of a single agent
func (r *AgentRegistry) Get(agentID string) (types.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, ok := r.agents[agentID]
	if !ok {
		return types.Agent{}, fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}
	return snapshot(agent), nil
}

// ListAvailable returns snapshots of all agents with load < capacity,
// ordered by agent id for deterministic downstream scoring.
func (r *AgentRegistry) ListAvailable() []types.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	available := make([]types.Agent, 0, len(r.agents))
	for _, agent := range r.agents {
		if agent.HasCapacity() {
			available = append(available, snapshot(agent))
		}
	}
	sort.Slice(available, func(i, j int) bool {
		return available[i].AgentID < available[j].AgentID
	})
	return available
}

// ListAll returns snapshots of every agent, ordered by agent id
func (r *AgentRegistry) ListAll() []types.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]types.Agent, 0, len(r.agents))
	for _, agent := range r.agents {
		all = append(all, snapshot(agent))
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].AgentID < all[j].AgentID
	})
	return all
}

// Reserve increments the agent's load and appends the case id, atomically.
// Fails with ErrCapacityExceeded if the agent is already saturated.
func (r *AgentRegistry) Reserve(agentID, caseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[agentID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}
	if !agent.HasCapacity() {
		return fmt.Errorf("%w: %s at %d/%d", ErrCapacityExceeded, agentID, agent.Load, agent.Capacity)
	}

	agent.AssignedCases = append(agent.AssignedCases, caseID)
	agent.Load = len(agent.AssignedCases)

	r.logger.Debug().
		Str("agent_id", agentID).
		Str("case_id", caseID).
		Int("load", agent.Load).
		Int("capacity", agent.Capacity).
		Msg("capacity reserved")
	return nil
}

// Release decrements the agent's load and removes the case id. Releasing a
// case the agent does not hold is a no-op.
func (r *AgentRegistry) Release(agentID, caseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[agentID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}

	for i, id := range agent.AssignedCases {
		if id == caseID {
			agent.AssignedCases = append(agent.AssignedCases[:i], agent.AssignedCases[i+1:]...)
			break
		}
	}
	agent.Load = len(agent.AssignedCases)

	r.logger.Debug().
		Str("agent_id", agentID).
		Str("case_id", caseID).
		Int("load", agent.Load).
		Msg("capacity released")
	return nil
}

// RecordBreach increments the agent's cumulative SLA breach counter
func (r *AgentRegistry) RecordBreach(agentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[agentID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}
	agent.SLABreaches++
	return nil
}

// RecordRecovery adds a settled amount to the agent's cumulative total
func (r *AgentRegistry) RecordRecovery(agentID string, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[agentID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}
	agent.TotalRecovered += amount
	return nil
}

// Count returns the number of provisioned agents
func (r *AgentRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// snapshot copies an agent so callers never share the registry's slices
func snapshot(agent *types.Agent) types.Agent {
	a := *agent
	a.Specializations = append([]string(nil), agent.Specializations...)
	a.AssignedCases = append([]string(nil), agent.AssignedCases...)
	return a
}
