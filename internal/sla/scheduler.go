package sla

import (
	"time"

	"github.com/collectra/backend/internal/types"
)

// TierPolicy holds the three deadline offsets for one risk tier, measured
// from the allocation instant.
type TierPolicy struct {
	FirstAction time.Duration
	FollowUp    time.Duration
	Resolution  time.Duration
}

// DefaultPolicies returns the service-level offsets for all tiers
func DefaultPolicies() map[types.RiskTier]TierPolicy {
	return map[types.RiskTier]TierPolicy{
		types.TierCritical: {FirstAction: 24 * time.Hour, FollowUp: 2 * 24 * time.Hour, Resolution: 7 * 24 * time.Hour},
		types.TierHigh:     {FirstAction: 48 * time.Hour, FollowUp: 3 * 24 * time.Hour, Resolution: 15 * 24 * time.Hour},
		types.TierMedium:   {FirstAction: 72 * time.Hour, FollowUp: 4 * 24 * time.Hour, Resolution: 20 * 24 * time.Hour},
		types.TierLow:      {FirstAction: 96 * time.Hour, FollowUp: 7 * 24 * time.Hour, Resolution: 30 * 24 * time.Hour},
	}
}

// Scheduler derives deadline sets from risk tiers and evaluates breach status.
// Deadlines are data, not timers; a surrounding poller drives evaluation.
type Scheduler struct {
	policies map[types.RiskTier]TierPolicy
}

// NewScheduler creates a scheduler with the default per-tier policies
func NewScheduler() *Scheduler {
	return &Scheduler{policies: DefaultPolicies()}
}

// DeadlinesFor computes the absolute deadline set for a tier at the given
// allocation instant. Computed once; reallocation keeps the original set.
func (s *Scheduler) DeadlinesFor(tier types.RiskTier, now time.Time) types.SLADeadlines {
	policy, ok := s.policies[tier]
	if !ok {
		policy = s.policies[types.TierLow]
	}
	return types.SLADeadlines{
		FirstAction: now.Add(policy.FirstAction),
		FollowUp:    now.Add(policy.FollowUp),
		Resolution:  now.Add(policy.Resolution),
	}
}

// Breached reports whether the case has blown its resolution deadline.
// Pure check; breach bookkeeping belongs to the caller.
func (s *Scheduler) Breached(c *types.Case, now time.Time) bool {
	if c.Status == types.StatusResolved || c.SLA == nil {
		return false
	}
	return now.After(c.SLA.Resolution)
}

// HoursRemaining returns hours until the resolution deadline, negative once past it
func (s *Scheduler) HoursRemaining(c *types.Case, now time.Time) float64 {
	if c.SLA == nil {
		return 0
	}
	return c.SLA.Resolution.Sub(now).Hours()
}
