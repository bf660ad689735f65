package types

import "time"

// AuditAction tags a single audit trail entry
type AuditAction string

const (
	AuditCaseReceived       AuditAction = "CASE_RECEIVED"
	AuditCasePrioritized    AuditAction = "CASE_PRIORITIZED"
	AuditCaseAllocated      AuditAction = "CASE_ALLOCATED"
	AuditAllocationDeferred AuditAction = "ALLOCATION_DEFERRED"
	AuditManualReallocation AuditAction = "MANUAL_REALLOCATION"
	AuditInteractionLogged  AuditAction = "INTERACTION_LOGGED"
	AuditSOPViolation       AuditAction = "SOP_VIOLATION"
	AuditDisputeOpened      AuditAction = "DISPUTE_OPENED"
	AuditDocumentUploaded   AuditAction = "DOCUMENT_UPLOADED"
	AuditCaseEscalated      AuditAction = "CASE_ESCALATED"
	AuditCaseResolved       AuditAction = "CASE_RESOLVED"
	AuditSLABreach          AuditAction = "SLA_BREACH"
)

// AuditEntry is an immutable record of a state-changing action on a case.
// The trail is append-only; insertion order is itself evidence.
type AuditEntry struct {
	Action    AuditAction `json:"action"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Detail    string      `json:"detail"`
}
