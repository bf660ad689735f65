package sla

import (
	"context"
	"encoding/json"
	"time"

	"github.com/collectra/backend/internal/types"
	"github.com/rs/zerolog"
)

// Evaluator sweeps all allocated, unresolved cases for breaches
type Evaluator interface {
	EvaluateSLA(now time.Time) []types.BreachStatus
}

// Notifier fans breach alerts out to connected dashboard clients
type Notifier interface {
	Broadcast(message []byte)
}

// Monitor is the external poller the engine expects: it periodically drives
// breach evaluation and pushes alerts for breached cases.
type Monitor struct {
	evaluator Evaluator
	notifier  Notifier
	interval  time.Duration
	logger    zerolog.Logger
}

// NewMonitor creates a Monitor
func NewMonitor(evaluator Evaluator, notifier Notifier, interval time.Duration, logger zerolog.Logger) *Monitor {
	return &Monitor{
		evaluator: evaluator,
		notifier:  notifier,
		interval:  interval,
		logger:    logger.With().Str("component", "sla_monitor").Logger(),
	}
}

// Start begins the evaluation loop, ticking until the context is cancelled
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info().Dur("interval", m.interval).Msg("sla monitor started")

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("sla monitor stopped")
			return
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

// sweep performs a single evaluation pass and broadcasts breached cases
func (m *Monitor) sweep(now time.Time) {
	statuses := m.evaluator.EvaluateSLA(now)

	breached := 0
	for _, st := range statuses {
		if !st.Breached {
			continue
		}
		breached++

		alert := types.BreachAlert{
			Type:         "sla_breach",
			CaseID:       st.CaseID,
			AgentID:      st.AgentID,
			HoursOverdue: -st.HoursRemaining,
			Timestamp:    now,
		}
		data, err := json.Marshal(alert)
		if err != nil {
			m.logger.Error().Err(err).Str("case_id", st.CaseID).Msg("failed to marshal breach alert")
			continue
		}
		if m.notifier != nil {
			m.notifier.Broadcast(data)
		}
	}

	m.logger.Debug().
		Int("evaluated", len(statuses)).
		Int("breached", breached).
		Msg("sla sweep complete")
}
