package storage

import "github.com/collectra/backend/internal/types"

// Store defines the archive storage interface
type Store interface {
	SaveCaseRecord(record types.CaseRecord) error
	SaveAgentStats(stats types.AgentRecoveryStats) error
	GetCaseRecords(dateKey string) ([]types.CaseRecord, error)
	GetAgentStats(agentID string) ([]types.AgentRecoveryStats, error)
	GetAgentCasesByDate(agentID, date string) ([]types.CaseRecord, error)
	TruncateAll() error
}

// NoopStore is a no-op implementation when DynamoDB is disabled
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (s *NoopStore) SaveCaseRecord(_ types.CaseRecord) error                  { return nil }
func (s *NoopStore) SaveAgentStats(_ types.AgentRecoveryStats) error          { return nil }
func (s *NoopStore) GetCaseRecords(_ string) ([]types.CaseRecord, error)      { return nil, nil }
func (s *NoopStore) GetAgentStats(_ string) ([]types.AgentRecoveryStats, error) { return nil, nil }
func (s *NoopStore) GetAgentCasesByDate(_, _ string) ([]types.CaseRecord, error) { return nil, nil }
func (s *NoopStore) TruncateAll() error                                          { return nil }
