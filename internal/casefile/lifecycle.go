package casefile

import (
	"errors"
	"fmt"

	"github.com/collectra/backend/internal/types"
)

var (
	// ErrCaseNotFound is returned when a case id is unknown
	ErrCaseNotFound = errors.New("case not found")

	// ErrInvalidTransition is returned for lifecycle violations, e.g. mutating
	// a resolved case. Surfaced to callers, never silently ignored.
	ErrInvalidTransition = errors.New("invalid case transition")
)

// allowedTransitions is the case state machine. RESOLVED is terminal;
// ESCALATED may re-enter IN_PROGRESS. Escalation and resolution are reachable
// from every non-terminal state.
var allowedTransitions = map[types.CaseStatus][]types.CaseStatus{
	types.StatusReceived:    {types.StatusPrioritized, types.StatusEscalated, types.StatusResolved},
	types.StatusPrioritized: {types.StatusAllocated, types.StatusEscalated, types.StatusResolved},
	types.StatusAllocated:   {types.StatusInProgress, types.StatusEscalated, types.StatusResolved},
	types.StatusInProgress:  {types.StatusInProgress, types.StatusEscalated, types.StatusResolved},
	types.StatusEscalated:   {types.StatusInProgress, types.StatusEscalated, types.StatusResolved},
	types.StatusResolved:    {},
}

// canTransition reports whether from -> to is a legal lifecycle step
func canTransition(from, to types.CaseStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// transition moves a case to the target status or fails with ErrInvalidTransition.
// It does not append audit entries; the caller owns the audit detail.
func transition(c *types.Case, to types.CaseStatus) error {
	if !canTransition(c.Status, to) {
		return fmt.Errorf("%w: %s -> %s for case %s", ErrInvalidTransition, c.Status, to, c.CaseID)
	}
	c.Status = to
	return nil
}
