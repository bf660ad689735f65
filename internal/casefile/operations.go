package casefile

import (
	"errors"
	"fmt"
	"time"

	"github.com/collectra/backend/internal/allocation"
	"github.com/collectra/backend/internal/metrics"
	"github.com/collectra/backend/internal/registry"
	"github.com/collectra/backend/internal/types"
)

// LogInteraction records a contact attempt and moves the case to IN_PROGRESS.
// A CALL outside the permitted contact window is still recorded, but an SOP
// violation entry is appended to the trail alongside it.
func (s *Service) LogInteraction(caseID string, itype types.InteractionType, details string, result types.InteractionResult, actorAgentID string) (types.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[caseID]
	if !ok {
		return types.Case{}, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
	}
	if err := transition(c, types.StatusInProgress); err != nil {
		return types.Case{}, err
	}

	now := s.clock()
	interaction := types.Interaction{
		ID:        s.ids.NewID("INT"),
		Type:      itype,
		Result:    result,
		Details:   details,
		AgentID:   actorAgentID,
		Timestamp: now,
	}
	c.Interactions = append(c.Interactions, interaction)
	c.UpdatedAt = now

	s.appendAudit(c, types.AuditInteractionLogged, actorAgentID,
		fmt.Sprintf("%s interaction with result %s", itype, result))
	metrics.Interactions.WithLabelValues(string(itype), string(result)).Inc()

	if itype == types.InteractionCall && !s.contactWindow.Contains(now) {
		s.appendAudit(c, types.AuditSOPViolation, actorAgentID,
			fmt.Sprintf("CALL at %s outside permitted contact hours %02d:00-%02d:00",
				now.Format("15:04"), s.contactWindow.StartHour, s.contactWindow.EndHour))
		metrics.SOPViolations.Inc()
		s.logger.Warn().
			Str("case_id", caseID).
			Str("agent_id", actorAgentID).
			Msg("call logged outside contact hours")
	}

	if result == types.ResultDispute {
		dispute := types.Dispute{
			ID:       s.ids.NewID("DSP"),
			Status:   types.DisputePending,
			Reason:   details,
			OpenedBy: actorAgentID,
			OpenedAt: now,
		}
		c.Disputes = append(c.Disputes, dispute)
		s.appendAudit(c, types.AuditDisputeOpened, actorAgentID,
			fmt.Sprintf("dispute %s opened in PENDING", dispute.ID))
	}

	return snapshotCase(c), nil
}

// LogDocument attaches a document to a non-terminal case
func (s *Service) LogDocument(caseID, fileName, docType, content, actorID string) (types.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[caseID]
	if !ok {
		return types.Case{}, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
	}
	if c.IsTerminal() {
		return types.Case{}, fmt.Errorf("%w: case %s is resolved", ErrInvalidTransition, caseID)
	}

	now := s.clock()
	doc := types.Document{
		ID:         s.ids.NewID("DOC"),
		FileName:   fileName,
		Type:       docType,
		Content:    content,
		UploadedBy: actorID,
		Timestamp:  now,
	}
	c.Documents = append(c.Documents, doc)
	c.UpdatedAt = now

	s.appendAudit(c, types.AuditDocumentUploaded, actorID,
		fmt.Sprintf("document %s (%s) attached", fileName, docType))

	return snapshotCase(c), nil
}

// Escalate raises a case to a supervisory role. Permitted from every
// non-terminal state, including repeated escalation.
func (s *Service) Escalate(caseID, reason, targetRole, actorID string) (types.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[caseID]
	if !ok {
		return types.Case{}, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
	}
	if err := transition(c, types.StatusEscalated); err != nil {
		return types.Case{}, err
	}
	c.UpdatedAt = s.clock()

	s.appendAudit(c, types.AuditCaseEscalated, actorID,
		fmt.Sprintf("escalated to %s: %s", targetRole, reason))
	metrics.Escalations.Inc()
	s.broadcastEvent("case_escalated", c, reason)

	s.logger.Info().
		Str("case_id", caseID).
		Str("target_role", targetRole).
		Str("actor", actorID).
		Msg("case escalated")

	return snapshotCase(c), nil
}

// Resolve closes a case. RESOLVED is terminal: every later lifecycle call
// fails with ErrInvalidTransition. A positive recovered amount is credited to
// the allocated agent; the historical recovery rate is maintained elsewhere.
func (s *Service) Resolve(caseID string, rtype types.ResolutionType, recoveredAmount float64, notes, actorID string) (types.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[caseID]
	if !ok {
		return types.Case{}, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
	}
	if err := transition(c, types.StatusResolved); err != nil {
		return types.Case{}, err
	}

	now := s.clock()
	c.Resolution = &types.Resolution{
		Type:            rtype,
		RecoveredAmount: recoveredAmount,
		Notes:           notes,
		ResolvedAt:      now,
	}
	c.UpdatedAt = now

	if c.AllocatedAgent != "" {
		// Resolution frees the agent's capacity slot for the retry loop
		if err := s.registry.Release(c.AllocatedAgent, caseID); err != nil {
			s.logger.Error().
				Str("case_id", caseID).
				Str("agent_id", c.AllocatedAgent).
				Msg("resolution references unknown agent")
		}
		if recoveredAmount > 0 {
			if err := s.registry.RecordRecovery(c.AllocatedAgent, recoveredAmount); err != nil {
				s.logger.Error().
					Str("case_id", caseID).
					Str("agent_id", c.AllocatedAgent).
					Msg("failed to credit recovery")
			}
		}
	}

	s.appendAudit(c, types.AuditCaseResolved, actorID,
		fmt.Sprintf("resolved as %s, recovered %.2f", rtype, recoveredAmount))
	metrics.Resolutions.WithLabelValues(string(rtype)).Inc()
	s.updateGauges()
	s.broadcastEvent("case_resolved", c, string(rtype))

	s.archiveCase(c, now)

	s.logger.Info().
		Str("case_id", caseID).
		Str("resolution", string(rtype)).
		Float64("recovered", recoveredAmount).
		Msg("case resolved")

	return snapshotCase(c), nil
}

// EvaluateSLA sweeps every allocated, unresolved case against the resolution
// deadline. The first observed breach flags the case, appends an audit entry
// and counts against the agent exactly once; later sweeps see the
// BreachRecorded marker and leave the counter alone.
func (s *Service) EvaluateSLA(now time.Time) []types.BreachStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]types.BreachStatus, 0)
	for _, id := range s.order {
		c := s.cases[id]
		if c.SLA == nil || c.Status == types.StatusResolved {
			continue
		}

		breached := s.scheduler.Breached(c, now)
		statuses = append(statuses, types.BreachStatus{
			CaseID:         c.CaseID,
			AgentID:        c.AllocatedAgent,
			Breached:       breached,
			HoursRemaining: s.scheduler.HoursRemaining(c, now),
		})

		if !breached || c.BreachRecorded {
			continue
		}

		c.SLABreached = true
		c.BreachRecorded = true
		s.appendAudit(c, types.AuditSLABreach, "system",
			fmt.Sprintf("resolution deadline %s exceeded", c.SLA.Resolution.Format(time.RFC3339)))
		metrics.SLABreaches.Inc()

		if c.AllocatedAgent != "" {
			if err := s.registry.RecordBreach(c.AllocatedAgent); err != nil {
				if errors.Is(err, registry.ErrAgentNotFound) {
					s.logger.Error().
						Str("case_id", c.CaseID).
						Str("agent_id", c.AllocatedAgent).
						Msg("breached case references unknown agent")
				}
			}
		}

		s.logger.Warn().
			Str("case_id", c.CaseID).
			Str("agent_id", c.AllocatedAgent).
			Str("tier", string(c.Tier)).
			Msg("sla breached")
	}
	return statuses
}

// ManualReallocate assigns a case to an explicit agent, bypassing scoring.
// The previous agent is released first; SLA deadlines set at first allocation
// are deliberately kept.
func (s *Service) ManualReallocate(caseID, targetAgentID, actorID string) (types.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[caseID]
	if !ok {
		return types.Case{}, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
	}
	if c.IsTerminal() {
		return types.Case{}, fmt.Errorf("%w: case %s is resolved", ErrInvalidTransition, caseID)
	}

	previous := c.AllocatedAgent
	if err := s.allocator.Reassign(c, targetAgentID); err != nil {
		if errors.Is(err, allocation.ErrDataIntegrity) {
			s.logger.Error().Err(err).Str("case_id", caseID).Msg("data integrity violation during reallocation")
		}
		return types.Case{}, err
	}

	now := s.clock()
	c.AllocatedAgent = targetAgentID
	c.UpdatedAt = now

	if c.Status == types.StatusPrioritized {
		_ = transition(c, types.StatusAllocated)
	}
	if c.SLA == nil {
		// First allocation for this case, whatever state it reached while
		// queued: attach deadlines now
		deadlines := s.scheduler.DeadlinesFor(c.Tier, now)
		c.SLA = &deadlines
	}

	detail := fmt.Sprintf("manual override by %s: assigned to %s", actorID, targetAgentID)
	if previous != "" {
		detail = fmt.Sprintf("manual override by %s: moved from %s to %s", actorID, previous, targetAgentID)
	}
	s.appendAudit(c, types.AuditManualReallocation, actorID, detail)
	metrics.ManualReallocations.Inc()
	s.broadcastEvent("case_reallocated", c, detail)

	return snapshotCase(c), nil
}

// archiveCase hands the resolved case to the archive store without holding up
// the caller. Archive failures are logged, never surfaced.
func (s *Service) archiveCase(c *types.Case, resolvedAt time.Time) {
	if s.archive == nil {
		return
	}

	record := types.CaseRecord{
		DateKey:          resolvedAt.Format("2006-01-02"),
		CaseID:           c.CaseID,
		DebtorRef:        c.DebtorRef,
		Region:           c.Region,
		Tier:             string(c.Tier),
		Amount:           c.Amount,
		AgeDays:          c.AgeDays,
		AgentID:          c.AllocatedAgent,
		ResolutionType:   string(c.Resolution.Type),
		RecoveredAmount:  c.Resolution.RecoveredAmount,
		SLABreached:      c.SLABreached,
		InteractionCount: len(c.Interactions),
		DisputeCount:     len(c.Disputes),
		CreatedAt:        c.CreatedAt.Format(time.RFC3339),
		ResolvedAt:       resolvedAt.Format(time.RFC3339),
	}

	var stats *types.AgentRecoveryStats
	if c.AllocatedAgent != "" {
		if agent, err := s.registry.Get(c.AllocatedAgent); err == nil {
			stats = &types.AgentRecoveryStats{
				AgentID:        agent.AgentID,
				Date:           resolvedAt.Format("2006-01-02"),
				Region:         agent.Region,
				Load:           agent.Load,
				TotalRecovered: agent.TotalRecovered,
				SLABreaches:    agent.SLABreaches,
			}
		}
	}

	go func() {
		if err := s.archive.SaveCaseRecord(record); err != nil {
			s.logger.Error().Err(err).Str("case_id", record.CaseID).Msg("failed to archive case record")
			return
		}
		metrics.CasesArchived.Inc()
		if stats != nil {
			if err := s.archive.SaveAgentStats(*stats); err != nil {
				s.logger.Error().Err(err).Str("agent_id", stats.AgentID).Msg("failed to archive agent stats")
			}
		}
	}()
}
