package allocation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/collectra/backend/internal/registry"
	"github.com/collectra/backend/internal/types"
	"github.com/rs/zerolog"
)

// Suitability weights. Fixed by the allocation policy; recovery history
// dominates, compliance risk is the smallest drag.
const (
	weightRecoveryRate   = 0.30
	weightSpecialization = 0.25
	weightGeoMatch       = 0.20
	weightLoadPenalty    = 0.15
	weightCompliance     = 0.10
)

const highValueTag = "High-Value"

var (
	// ErrNoCapacity means every agent is saturated. A valid terminal outcome
	// for this attempt, not an error condition; the case stays queued and an
	// external poller retries.
	ErrNoCapacity = errors.New("no agent capacity available")

	// ErrDataIntegrity means a stored allocated-agent reference has no matching
	// agent record. Fatal to the operation, logged loudly by callers.
	ErrDataIntegrity = errors.New("allocation references unknown agent")
)

// Result is a completed allocation decision with its full scoring evidence
type Result struct {
	AgentID    string
	FinalScore float64
	Candidates []types.CandidateScore
}

// Engine scores candidate agents for a classified case and reserves capacity
// on the winner. It never retries and never mutates case state; the caller
// owns the lifecycle transition.
type Engine struct {
	registry *registry.AgentRegistry
	logger   zerolog.Logger
}

// NewEngine creates an allocation engine backed by the given registry
func NewEngine(reg *registry.AgentRegistry, logger zerolog.Logger) *Engine {
	return &Engine{
		registry: reg,
		logger:   logger.With().Str("component", "allocation").Logger(),
	}
}

// Allocate runs one allocation attempt for the case: filter agents with spare
// capacity, score each, pick the strict maximum (ties broken by ascending
// agent id) and reserve capacity on the winner.
//
// The caller must hold the engine-wide case lock so that reading availability
// and reserving capacity cannot interleave with another allocation attempt.
func (e *Engine) Allocate(c *types.Case) (*Result, error) {
	available := e.registry.ListAvailable()
	if len(available) == 0 {
		e.logger.Info().Str("case_id", c.CaseID).Msg("all agents saturated, allocation deferred")
		return nil, ErrNoCapacity
	}

	candidates := make([]types.CandidateScore, 0, len(available))
	best := -1
	for i, agent := range available {
		score := e.scoreCandidate(&agent, c)
		candidates = append(candidates, score)

		// ListAvailable is ordered by agent id, so a strict > keeps the
		// lowest id on exact ties.
		if best == -1 || score.FinalScore > candidates[best].FinalScore {
			best = i
		}
	}

	winner := candidates[best]
	if err := e.registry.Reserve(winner.AgentID, c.CaseID); err != nil {
		// Availability was checked under the same lock, so this is a
		// programming error, not a race.
		return nil, fmt.Errorf("reserve after availability check: %w", err)
	}

	// Present candidates best-first for audit readability
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].FinalScore != candidates[j].FinalScore {
			return candidates[i].FinalScore > candidates[j].FinalScore
		}
		return candidates[i].AgentID < candidates[j].AgentID
	})

	e.logger.Info().
		Str("case_id", c.CaseID).
		Str("agent_id", winner.AgentID).
		Str("tier", string(c.Tier)).
		Float64("final_score", winner.FinalScore).
		Int("candidates", len(candidates)).
		Msg("case allocated")

	return &Result{
		AgentID:    winner.AgentID,
		FinalScore: winner.FinalScore,
		Candidates: candidates,
	}, nil
}

// Reassign moves a case to an explicit agent, bypassing scoring. Used by the
// manual-override path: the previous agent (if any) is released before the
// target is reserved.
func (e *Engine) Reassign(c *types.Case, targetAgentID string) error {
	if _, err := e.registry.Get(targetAgentID); err != nil {
		return err
	}

	if c.AllocatedAgent != "" {
		if err := e.registry.Release(c.AllocatedAgent, c.CaseID); err != nil {
			if errors.Is(err, registry.ErrAgentNotFound) {
				e.logger.Error().
					Str("case_id", c.CaseID).
					Str("agent_id", c.AllocatedAgent).
					Msg("stored allocation references unknown agent")
				return fmt.Errorf("%w: %s", ErrDataIntegrity, c.AllocatedAgent)
			}
			return err
		}
	}

	if err := e.registry.Reserve(targetAgentID, c.CaseID); err != nil {
		// Put the case back on the previous agent so its assigned-case list
		// and the case's agent reference stay consistent.
		if c.AllocatedAgent != "" {
			if rerr := e.registry.Reserve(c.AllocatedAgent, c.CaseID); rerr != nil {
				e.logger.Error().Err(rerr).
					Str("case_id", c.CaseID).
					Str("agent_id", c.AllocatedAgent).
					Msg("failed to restore previous assignment after rejected reassign")
			}
		}
		return err
	}

	e.logger.Info().
		Str("case_id", c.CaseID).
		Str("from", c.AllocatedAgent).
		Str("to", targetAgentID).
		Msg("case manually reassigned")
	return nil
}

// scoreCandidate computes the weighted suitability score for one agent and
// scales it by the case's recovery probability and tier priority factor.
func (e *Engine) scoreCandidate(agent *types.Agent, c *types.Case) types.CandidateScore {
	specMatch := 0.7
	if c.Tier == types.TierCritical && agent.HasSpecialization(highValueTag) {
		specMatch = 1.0
	}

	geoMatch := 0.8
	if agent.Region == c.Region {
		geoMatch = 1.0
	}

	loadPenalty := agent.Utilization()
	complianceRisk := 1 - agent.ComplianceScore

	suitability := weightRecoveryRate*agent.RecoveryRate +
		weightSpecialization*specMatch +
		weightGeoMatch*geoMatch -
		weightLoadPenalty*loadPenalty -
		weightCompliance*complianceRisk

	priority := types.PriorityFactor[c.Tier]

	return types.CandidateScore{
		AgentID:             agent.AgentID,
		RecoveryRate:        agent.RecoveryRate,
		SpecializationMatch: specMatch,
		GeoMatch:            geoMatch,
		LoadPenalty:         loadPenalty,
		ComplianceRisk:      complianceRisk,
		Suitability:         suitability,
		PriorityFactor:      priority,
		FinalScore:          c.RecoveryProbability * suitability * priority,
	}
}
