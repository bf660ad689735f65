package types

import "time"

// RiskTier classifies a case by monetary exposure and age
type RiskTier string

const (
	TierCritical RiskTier = "CRITICAL"
	TierHigh     RiskTier = "HIGH"
	TierMedium   RiskTier = "MEDIUM"
	TierLow      RiskTier = "LOW"
)

// PriorityFactor maps each tier to the multiplier applied during allocation scoring
var PriorityFactor = map[RiskTier]float64{
	TierCritical: 1.5,
	TierHigh:     1.3,
	TierMedium:   1.0,
	TierLow:      0.8,
}

// CaseStatus represents the lifecycle state of a case
type CaseStatus string

const (
	StatusReceived    CaseStatus = "RECEIVED"    // Intake complete, not yet classified
	StatusPrioritized CaseStatus = "PRIORITIZED" // Classified, waiting for an agent with capacity
	StatusAllocated   CaseStatus = "ALLOCATED"   // Assigned to an agent, no contact yet
	StatusInProgress  CaseStatus = "IN_PROGRESS" // Agent is actively working the case
	StatusEscalated   CaseStatus = "ESCALATED"   // Raised to a supervisory role
	StatusResolved    CaseStatus = "RESOLVED"    // Terminal
)

// InteractionType represents the contact channel of a debtor interaction
type InteractionType string

const (
	InteractionCall  InteractionType = "CALL"
	InteractionEmail InteractionType = "EMAIL"
	InteractionSMS   InteractionType = "SMS"
	InteractionVisit InteractionType = "VISIT"
)

// InteractionResult represents the outcome of a debtor interaction
type InteractionResult string

const (
	ResultSuccess  InteractionResult = "SUCCESS"
	ResultCallback InteractionResult = "CALLBACK"
	ResultDispute  InteractionResult = "DISPUTE"
	ResultNoAnswer InteractionResult = "NO_ANSWER"
)

// ResolutionType represents how a case was closed
type ResolutionType string

const (
	ResolutionRecovered  ResolutionType = "RECOVERED"
	ResolutionWrittenOff ResolutionType = "WRITTEN_OFF"
	ResolutionSettled    ResolutionType = "SETTLED"
)

// DisputeStatus represents the state of a debtor dispute
type DisputeStatus string

const (
	DisputePending  DisputeStatus = "PENDING"
	DisputeResolved DisputeStatus = "RESOLVED"
)

// Interaction is a single recorded contact attempt with the debtor
type Interaction struct {
	ID        string            `json:"id"`
	Type      InteractionType   `json:"type"`
	Result    InteractionResult `json:"result"`
	Details   string            `json:"details,omitempty"`
	AgentID   string            `json:"agentId"`
	Timestamp time.Time         `json:"timestamp"`
}

// Document is a file attached to a case
type Document struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	Type       string    `json:"type"`
	Content    string    `json:"content,omitempty"`
	UploadedBy string    `json:"uploadedBy"`
	Timestamp  time.Time `json:"timestamp"`
}

// Dispute is a debtor dispute opened against a case
type Dispute struct {
	ID       string        `json:"id"`
	Status   DisputeStatus `json:"status"`
	Reason   string        `json:"reason,omitempty"`
	OpenedBy string        `json:"openedBy"`
	OpenedAt time.Time     `json:"openedAt"`
}

// SLADeadlines holds the three absolute deadlines attached at allocation time.
// They are computed once from the tier and never recomputed.
type SLADeadlines struct {
	FirstAction time.Time `json:"firstAction"`
	FollowUp    time.Time `json:"followUp"`
	Resolution  time.Time `json:"resolution"`
}

// CandidateScore records the full scoring breakdown for one agent considered
// during allocation, kept for audit and explainability.
type CandidateScore struct {
	AgentID             string  `json:"agentId"`
	RecoveryRate        float64 `json:"recoveryRate"`
	SpecializationMatch float64 `json:"specializationMatch"`
	GeoMatch            float64 `json:"geoMatch"`
	LoadPenalty         float64 `json:"loadPenalty"`
	ComplianceRisk      float64 `json:"complianceRisk"`
	Suitability         float64 `json:"suitability"`
	PriorityFactor      float64 `json:"priorityFactor"`
	FinalScore          float64 `json:"finalScore"`
}

// Resolution captures how and for how much a case was closed
type Resolution struct {
	Type            ResolutionType `json:"type"`
	RecoveredAmount float64        `json:"recoveredAmount"`
	Notes           string         `json:"notes,omitempty"`
	ResolvedAt      time.Time      `json:"resolvedAt"`
}

// Case is a debt-recovery work item. Cases are never deleted; the audit
// trail is retained after resolution.
type Case struct {
	CaseID    string   `json:"caseId"`
	DebtorRef string   `json:"debtorRef"`
	Amount    float64  `json:"amount"`
	AgeDays   int      `json:"ageDays"`
	Channels  []string `json:"channels,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Region    string   `json:"region"`

	Tier                RiskTier `json:"tier,omitempty"`
	RecoveryProbability float64  `json:"recoveryProbability,omitempty"`

	Status          CaseStatus       `json:"status"`
	AllocatedAgent  string           `json:"allocatedAgent,omitempty"`
	AllocationScore float64          `json:"allocationScore,omitempty"`
	Candidates      []CandidateScore `json:"candidates,omitempty"`

	SLA            *SLADeadlines `json:"sla,omitempty"`
	SLABreached    bool          `json:"slaBreached"`
	BreachRecorded bool          `json:"-"` // breach counted against the agent, distinct from the flag

	Interactions []Interaction `json:"interactions,omitempty"`
	Documents    []Document    `json:"documents,omitempty"`
	Disputes     []Dispute     `json:"disputes,omitempty"`
	AuditTrail   []AuditEntry  `json:"auditTrail"`

	Resolution *Resolution `json:"resolution,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// IsTerminal reports whether the case accepts no further transitions
func (c *Case) IsTerminal() bool {
	return c.Status == StatusResolved
}

// BreachStatus is one row of an SLA evaluation sweep
type BreachStatus struct {
	CaseID         string  `json:"caseId"`
	AgentID        string  `json:"agentId,omitempty"`
	Breached       bool    `json:"breached"`
	HoursRemaining float64 `json:"hoursRemaining"` // negative once past the resolution deadline
}
