package types

// Agent is a debt-collection agency (DCA) with finite concurrent case capacity.
// Agents are provisioned at startup; the engine only mutates load and statistics.
type Agent struct {
	AgentID         string   `json:"agentId"`
	Name            string   `json:"name"`
	Capacity        int      `json:"capacity"`
	Load            int      `json:"load"`
	RecoveryRate    float64  `json:"recoveryRate"`    // historical, 0-1
	Specializations []string `json:"specializations"` // e.g. "High-Value", "SME"
	Region          string   `json:"region"`
	ComplianceScore float64  `json:"complianceScore"` // 0-1
	SLABreaches     int      `json:"slaBreaches"`
	TotalRecovered  float64  `json:"totalRecovered"`
	AssignedCases   []string `json:"assignedCases,omitempty"`
}

// HasCapacity reports whether the agent can take another case
func (a *Agent) HasCapacity() bool {
	return a.Load < a.Capacity
}

// Utilization returns load as a fraction of capacity
func (a *Agent) Utilization() float64 {
	if a.Capacity == 0 {
		return 1.0
	}
	return float64(a.Load) / float64(a.Capacity)
}

// HasSpecialization reports whether the agent carries the given tag
func (a *Agent) HasSpecialization(tag string) bool {
	for _, s := range a.Specializations {
		if s == tag {
			return true
		}
	}
	return false
}

// AlertSeverity represents the severity of an agent workload alert
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// AgentAlert flags a workload or compliance condition on an agent
type AgentAlert struct {
	Rule     string        `json:"rule"`
	Severity AlertSeverity `json:"severity"`
	Message  string        `json:"message"`
}

// AgentWorkload is the per-agent row of the portfolio snapshot
type AgentWorkload struct {
	AgentID        string       `json:"agentId"`
	Name           string       `json:"name"`
	Region         string       `json:"region"`
	Load           int          `json:"load"`
	Capacity       int          `json:"capacity"`
	Utilization    float64      `json:"utilization"`
	SLABreaches    int          `json:"slaBreaches"`
	TotalRecovered float64      `json:"totalRecovered"`
	Alerts         []AgentAlert `json:"alerts,omitempty"`
}
