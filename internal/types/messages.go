package types

import "time"

// CaseEvent is pushed to dashboard clients whenever a case changes state
type CaseEvent struct {
	Type      string     `json:"type"` // "case_event"
	Event     string     `json:"event"`
	CaseID    string     `json:"caseId"`
	AgentID   string     `json:"agentId,omitempty"`
	Tier      RiskTier   `json:"tier,omitempty"`
	Status    CaseStatus `json:"status"`
	Detail    string     `json:"detail,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// BreachAlert is pushed when the SLA monitor observes a breached case
type BreachAlert struct {
	Type         string    `json:"type"` // "sla_breach"
	CaseID       string    `json:"caseId"`
	AgentID      string    `json:"agentId,omitempty"`
	HoursOverdue float64   `json:"hoursOverdue"`
	Timestamp    time.Time `json:"timestamp"`
}

// PortfolioSnapshot is the single payload the aggregator broadcasts every tick
type PortfolioSnapshot struct {
	Type          string             `json:"type"` // always "portfolio_snapshot"
	Timestamp     time.Time          `json:"timestamp"`
	TotalCases    int                `json:"totalCases"`
	ByStatus      map[CaseStatus]int `json:"byStatus"`
	ByTier        map[RiskTier]int   `json:"byTier"`
	BreachedCases int                `json:"breachedCases"`
	Agents        []AgentWorkload    `json:"agents"`
}
