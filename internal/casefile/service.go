package casefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/collectra/backend/internal/allocation"
	"github.com/collectra/backend/internal/idgen"
	"github.com/collectra/backend/internal/metrics"
	"github.com/collectra/backend/internal/registry"
	"github.com/collectra/backend/internal/risk"
	"github.com/collectra/backend/internal/sla"
	"github.com/collectra/backend/internal/types"
	"github.com/rs/zerolog"
)

// Archive is the subset of storage.Store needed by the case service
type Archive interface {
	SaveCaseRecord(record types.CaseRecord) error
	SaveAgentStats(stats types.AgentRecoveryStats) error
}

// Notifier pushes engine events to connected dashboard clients
type Notifier interface {
	Broadcast(message []byte)
}

// ContactWindow is the permitted local-time window for CALL interactions.
// Calls outside it are recorded but flagged with an SOP violation.
type ContactWindow struct {
	StartHour int
	EndHour   int
}

// Contains reports whether t falls inside the window
func (w ContactWindow) Contains(t time.Time) bool {
	h := t.Hour()
	return h >= w.StartHour && h < w.EndHour
}

// Service owns the case collection and ties classification, allocation, SLA
// scheduling and the audit trail together. One mutex serializes every
// case-mutating operation; the registry carries its own lock. Holding the
// service lock across an entire allocation keeps availability reads and
// capacity reservations from interleaving.
type Service struct {
	mu    sync.RWMutex
	cases map[string]*types.Case
	order []string // insertion order, for stable listings

	registry   *registry.AgentRegistry
	classifier *risk.Classifier
	allocator  *allocation.Engine
	scheduler  *sla.Scheduler
	ids        idgen.Generator

	contactWindow ContactWindow
	clock         func() time.Time
	archive       Archive
	notifier      Notifier
	logger        zerolog.Logger
}

// NewService creates the case service
func NewService(
	reg *registry.AgentRegistry,
	classifier *risk.Classifier,
	allocator *allocation.Engine,
	scheduler *sla.Scheduler,
	ids idgen.Generator,
	logger zerolog.Logger,
) *Service {
	return &Service{
		cases:         make(map[string]*types.Case),
		registry:      reg,
		classifier:    classifier,
		allocator:     allocator,
		scheduler:     scheduler,
		ids:           ids,
		contactWindow: ContactWindow{StartHour: 9, EndHour: 18},
		clock:         time.Now,
		logger:        logger.With().Str("component", "casefile").Logger(),
	}
}

// SetArchive sets the persistence store for resolved-case records
func (s *Service) SetArchive(archive Archive) {
	s.archive = archive
}

// SetNotifier sets the event fan-out target
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetContactWindow overrides the permitted contact hours
func (s *Service) SetContactWindow(w ContactWindow) {
	s.contactWindow = w
}

// SetClock overrides the time source; tests use this for determinism
func (s *Service) SetClock(clock func() time.Time) {
	s.clock = clock
}

// CaseIntake is the attribute set a new case arrives with
type CaseIntake struct {
	DebtorRef string   `json:"debtorRef"`
	Amount    float64  `json:"amount"`
	AgeDays   int      `json:"ageDays"`
	Channels  []string `json:"channels,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Region    string   `json:"region"`
}

// Ingest creates a case, classifies it and attempts allocation once. When the
// pool is saturated the case stays PRIORITIZED for the retry loop; that is a
// valid outcome, not an error.
func (s *Service) Ingest(intake CaseIntake) (types.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	c := &types.Case{
		CaseID:    s.ids.NewID("CASE"),
		DebtorRef: intake.DebtorRef,
		Amount:    intake.Amount,
		AgeDays:   intake.AgeDays,
		Channels:  append([]string(nil), intake.Channels...),
		Notes:     intake.Notes,
		Region:    intake.Region,
		Status:    types.StatusReceived,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.cases[c.CaseID] = c
	s.order = append(s.order, c.CaseID)

	s.appendAudit(c, types.AuditCaseReceived, "system",
		fmt.Sprintf("case received for %s, amount %.2f, age %d days", c.DebtorRef, c.Amount, c.AgeDays))

	// Classification can't fail; RECEIVED -> PRIORITIZED is always legal here
	c.Tier, c.RecoveryProbability = s.classifier.Classify(c.Amount, c.AgeDays)
	_ = transition(c, types.StatusPrioritized)
	s.appendAudit(c, types.AuditCasePrioritized, "system",
		fmt.Sprintf("classified %s with recovery probability %.3f", c.Tier, c.RecoveryProbability))

	metrics.CasesIngested.WithLabelValues(string(c.Tier)).Inc()

	s.tryAllocate(c)
	s.updateGauges()

	s.logger.Info().
		Str("case_id", c.CaseID).
		Str("tier", string(c.Tier)).
		Str("status", string(c.Status)).
		Str("agent_id", c.AllocatedAgent).
		Msg("case ingested")

	return snapshotCase(c), nil
}

// RetryPending re-attempts allocation for every prioritized case, oldest
// first, stopping early once capacity runs out. Returns the number allocated.
func (s *Service) RetryPending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	allocated := 0
	for _, id := range s.order {
		c := s.cases[id]
		if c.Status != types.StatusPrioritized {
			continue
		}
		if !s.tryAllocate(c) {
			break
		}
		allocated++
	}
	if allocated > 0 {
		s.updateGauges()
	}
	return allocated
}

// GetCase returns a snapshot of a single case
func (s *Service) GetCase(caseID string) (types.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cases[caseID]
	if !ok {
		return types.Case{}, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
	}
	return snapshotCase(c), nil
}

// ListFilter selects cases for listing. Zero value lists everything.
type ListFilter struct {
	AgentID string
	Status  types.CaseStatus
}

// ListCases returns snapshots of all cases matching the filter, in intake order
func (s *Service) ListCases(filter ListFilter) []types.Case {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]types.Case, 0, len(s.order))
	for _, id := range s.order {
		c := s.cases[id]
		if filter.AgentID != "" && c.AllocatedAgent != filter.AgentID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		result = append(result, snapshotCase(c))
	}
	return result
}

// PortfolioSnapshot aggregates the whole book of cases for the dashboard
func (s *Service) PortfolioSnapshot() types.PortfolioSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := types.PortfolioSnapshot{
		Type:      "portfolio_snapshot",
		Timestamp: s.clock(),
		ByStatus:  make(map[types.CaseStatus]int),
		ByTier:    make(map[types.RiskTier]int),
	}
	for _, c := range s.cases {
		snap.TotalCases++
		snap.ByStatus[c.Status]++
		if c.Tier != "" {
			snap.ByTier[c.Tier]++
		}
		if c.SLABreached {
			snap.BreachedCases++
		}
	}
	return snap
}

// tryAllocate runs one allocation attempt and applies the outcome to the
// case. Returns false when the pool had no capacity. Caller holds the lock.
func (s *Service) tryAllocate(c *types.Case) bool {
	res, err := s.allocator.Allocate(c)
	if err != nil {
		if errors.Is(err, allocation.ErrNoCapacity) {
			s.appendAudit(c, types.AuditAllocationDeferred, "system",
				"no agent capacity available, case queued for retry")
			metrics.AllocationsDeferred.Inc()
			return false
		}
		// Availability was checked under this lock; anything else is a bug
		s.logger.Error().Err(err).Str("case_id", c.CaseID).Msg("allocation failed unexpectedly")
		s.appendAudit(c, types.AuditAllocationDeferred, "system",
			fmt.Sprintf("allocation aborted: %v", err))
		return false
	}

	now := s.clock()
	_ = transition(c, types.StatusAllocated)
	c.AllocatedAgent = res.AgentID
	c.AllocationScore = res.FinalScore
	c.Candidates = res.Candidates

	deadlines := s.scheduler.DeadlinesFor(c.Tier, now)
	c.SLA = &deadlines
	c.UpdatedAt = now

	s.appendAudit(c, types.AuditCaseAllocated, "system",
		fmt.Sprintf("allocated to %s with score %.4f (%d candidates considered)",
			res.AgentID, res.FinalScore, len(res.Candidates)))

	metrics.CasesAllocated.WithLabelValues(string(c.Tier)).Inc()
	metrics.AllocationScore.Observe(res.FinalScore)

	s.broadcastEvent("case_allocated", c, fmt.Sprintf("allocated to %s", res.AgentID))
	return true
}

// appendAudit appends one immutable entry to the case's trail. Entries are
// never reordered, deduplicated or rolled back.
func (s *Service) appendAudit(c *types.Case, action types.AuditAction, actor, detail string) {
	c.AuditTrail = append(c.AuditTrail, types.AuditEntry{
		Action:    action,
		Actor:     actor,
		Timestamp: s.clock(),
		Detail:    detail,
	})
}

// broadcastEvent pushes a case event to the notifier, when one is wired
func (s *Service) broadcastEvent(event string, c *types.Case, detail string) {
	if s.notifier == nil {
		return
	}
	msg := types.CaseEvent{
		Type:      "case_event",
		Event:     event,
		CaseID:    c.CaseID,
		AgentID:   c.AllocatedAgent,
		Tier:      c.Tier,
		Status:    c.Status,
		Detail:    detail,
		Timestamp: s.clock(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error().Err(err).Str("case_id", c.CaseID).Msg("failed to marshal case event")
		return
	}
	s.notifier.Broadcast(data)
}

// updateGauges refreshes the open/pending case gauges. Caller holds the lock.
func (s *Service) updateGauges() {
	open, pending := 0, 0
	for _, c := range s.cases {
		if c.Status != types.StatusResolved {
			open++
		}
		if c.Status == types.StatusPrioritized {
			pending++
		}
	}
	metrics.OpenCases.Set(float64(open))
	metrics.PendingAllocation.Set(float64(pending))
}

// snapshotCase deep-copies a case so callers never share engine-owned slices
func snapshotCase(c *types.Case) types.Case {
	out := *c
	out.Channels = append([]string(nil), c.Channels...)
	out.Candidates = append([]types.CandidateScore(nil), c.Candidates...)
	out.Interactions = append([]types.Interaction(nil), c.Interactions...)
	out.Documents = append([]types.Document(nil), c.Documents...)
	out.Disputes = append([]types.Dispute(nil), c.Disputes...)
	out.AuditTrail = append([]types.AuditEntry(nil), c.AuditTrail...)
	if c.SLA != nil {
		deadlines := *c.SLA
		out.SLA = &deadlines
	}
	if c.Resolution != nil {
		res := *c.Resolution
		out.Resolution = &res
	}
	return out
}
