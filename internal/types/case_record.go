package types

// CaseRecord is a flattened resolved case for DynamoDB archival
type CaseRecord struct {
	DateKey          string  `json:"dateKey" dynamodbav:"DateKey"` // YYYY-MM-DD of resolution (partition key)
	CaseID           string  `json:"caseId" dynamodbav:"CaseID"`   // sort key
	DebtorRef        string  `json:"debtorRef" dynamodbav:"DebtorRef"`
	Region           string  `json:"region" dynamodbav:"Region"`
	Tier             string  `json:"tier" dynamodbav:"Tier"`
	Amount           float64 `json:"amount" dynamodbav:"Amount"`
	AgeDays          int     `json:"ageDays" dynamodbav:"AgeDays"`
	AgentID          string  `json:"agentId" dynamodbav:"AgentID"`
	ResolutionType   string  `json:"resolutionType" dynamodbav:"ResolutionType"`
	RecoveredAmount  float64 `json:"recoveredAmount" dynamodbav:"RecoveredAmount"`
	SLABreached      bool    `json:"slaBreached" dynamodbav:"SLABreached"`
	InteractionCount int     `json:"interactionCount" dynamodbav:"InteractionCount"`
	DisputeCount     int     `json:"disputeCount" dynamodbav:"DisputeCount"`
	CreatedAt        string  `json:"createdAt" dynamodbav:"CreatedAt"`   // RFC3339
	ResolvedAt       string  `json:"resolvedAt" dynamodbav:"ResolvedAt"` // RFC3339
}

// AgentRecoveryStats is a daily snapshot of an agent's cumulative totals for
// DynamoDB. One row per agent per day; later writes on the same day win.
type AgentRecoveryStats struct {
	AgentID        string  `json:"agentId" dynamodbav:"AgentID"` // partition key
	Date           string  `json:"date" dynamodbav:"Date"`       // YYYY-MM-DD (sort key)
	Region         string  `json:"region" dynamodbav:"Region"`
	Load           int     `json:"load" dynamodbav:"Load"`
	TotalRecovered float64 `json:"totalRecovered" dynamodbav:"TotalRecovered"`
	SLABreaches    int     `json:"slaBreaches" dynamodbav:"SLABreaches"`
}
