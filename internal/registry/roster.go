package registry

import "github.com/collectra/backend/internal/types"

// DefaultRoster returns the fixed set of collection agencies provisioned at
// startup. Capacity and historical rates mirror the onboarding contracts.
func DefaultRoster() []*types.Agent {
	return []*types.Agent{
		{
			AgentID:         "DCA-001",
			Name:            "Meridian Recovery Partners",
			Capacity:        25,
			RecoveryRate:    0.72,
			Specializations: []string{"High-Value", "Corporate"},
			Region:          "north",
			ComplianceScore: 0.95,
		},
		{
			AgentID:         "DCA-002",
			Name:            "Atlas Collections Ltd",
			Capacity:        40,
			RecoveryRate:    0.61,
			Specializations: []string{"Retail", "SME"},
			Region:          "south",
			ComplianceScore: 0.88,
		},
		{
			AgentID:         "DCA-003",
			Name:            "Halstead & Grey Associates",
			Capacity:        15,
			RecoveryRate:    0.79,
			Specializations: []string{"High-Value", "Legal"},
			Region:          "west",
			ComplianceScore: 0.97,
		},
		{
			AgentID:         "DCA-004",
			Name:            "Northgate Debt Services",
			Capacity:        35,
			RecoveryRate:    0.58,
			Specializations: []string{"Retail"},
			Region:          "north",
			ComplianceScore: 0.82,
		},
		{
			AgentID:         "DCA-005",
			Name:            "Crescent Field Agents",
			Capacity:        20,
			RecoveryRate:    0.66,
			Specializations: []string{"Field-Visit", "SME"},
			Region:          "east",
			ComplianceScore: 0.91,
		},
		{
			AgentID:         "DCA-006",
			Name:            "Pinnacle Asset Recovery",
			Capacity:        30,
			RecoveryRate:    0.69,
			Specializations: []string{"High-Value", "Secured"},
			Region:          "south",
			ComplianceScore: 0.93,
		},
	}
}

// ProvisionDefaultRoster loads the default roster into a registry
func ProvisionDefaultRoster(r *AgentRegistry) {
	for _, agent := range DefaultRoster() {
		r.Provision(agent)
	}
}
