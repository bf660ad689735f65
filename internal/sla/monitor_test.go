package sla

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectra/backend/internal/types"
)

type stubEvaluator struct {
	statuses []types.BreachStatus
}

func (s *stubEvaluator) EvaluateSLA(now time.Time) []types.BreachStatus {
	return s.statuses
}

type captureNotifier struct {
	mu       sync.Mutex
	messages [][]byte
}

func (c *captureNotifier) Broadcast(message []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
}

func TestSweepBroadcastsOnlyBreaches(t *testing.T) {
	evaluator := &stubEvaluator{statuses: []types.BreachStatus{
		{CaseID: "CASE-1", AgentID: "DCA-001", Breached: true, HoursRemaining: -12.5},
		{CaseID: "CASE-2", AgentID: "DCA-002", Breached: false, HoursRemaining: 48},
	}}
	notifier := &captureNotifier{}

	m := NewMonitor(evaluator, notifier, time.Minute, zerolog.Nop())
	m.sweep(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	require.Len(t, notifier.messages, 1)

	var alert types.BreachAlert
	require.NoError(t, json.Unmarshal(notifier.messages[0], &alert))
	assert.Equal(t, "sla_breach", alert.Type)
	assert.Equal(t, "CASE-1", alert.CaseID)
	assert.Equal(t, "DCA-001", alert.AgentID)
	assert.Equal(t, 12.5, alert.HoursOverdue)
}

func TestSweepWithoutNotifier(t *testing.T) {
	evaluator := &stubEvaluator{statuses: []types.BreachStatus{
		{CaseID: "CASE-1", Breached: true, HoursRemaining: -1},
	}}

	m := NewMonitor(evaluator, nil, time.Minute, zerolog.Nop())
	assert.NotPanics(t, func() {
		m.sweep(time.Now())
	})
}
