package alerts

import (
	"fmt"

	"github.com/collectra/backend/internal/types"
)

const (
	utilizationWarning = 0.85
	breachCritical     = 3
)

// CheckAgentWorkloads evaluates alert rules for a slice of agent workload
// rows, mutating each row's Alerts field in place.
func CheckAgentWorkloads(agents []types.AgentWorkload) {
	for i := range agents {
		agents[i].Alerts = nil

		if agents[i].Load >= agents[i].Capacity {
			agents[i].Alerts = append(agents[i].Alerts, types.AgentAlert{
				Rule:     "at_capacity",
				Severity: types.SeverityCritical,
				Message:  fmt.Sprintf("at capacity (%d/%d)", agents[i].Load, agents[i].Capacity),
			})
		} else if agents[i].Utilization >= utilizationWarning {
			agents[i].Alerts = append(agents[i].Alerts, types.AgentAlert{
				Rule:     "high_utilization",
				Severity: types.SeverityWarning,
				Message:  fmt.Sprintf("utilization %.0f%%", agents[i].Utilization*100),
			})
		}

		if agents[i].SLABreaches >= breachCritical {
			agents[i].Alerts = append(agents[i].Alerts, types.AgentAlert{
				Rule:     "repeat_breaches",
				Severity: types.SeverityCritical,
				Message:  fmt.Sprintf("%d SLA breaches", agents[i].SLABreaches),
			})
		}
	}
}
