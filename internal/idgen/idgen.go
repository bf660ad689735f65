// Package idgen provides id generation as an explicit service rather than an
// ambient counter, so tests can substitute a predictable sequence.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator mints identifiers for cases and sub-records
type Generator interface {
	NewID(prefix string) string
}

// UUID generates prefixed random identifiers for production use
type UUID struct{}

// NewUUID creates a UUID generator
func NewUUID() *UUID { return &UUID{} }

// NewID returns e.g. "CASE-9f1c4b..." for prefix "CASE"
func (g *UUID) NewID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String())
}

// Sequence generates deterministic incrementing identifiers for tests
type Sequence struct {
	counter atomic.Int64
}

// NewSequence creates a Sequence generator starting at 1
func NewSequence() *Sequence { return &Sequence{} }

// NewID returns e.g. "CASE-1", "CASE-2", ...
func (g *Sequence) NewID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, g.counter.Add(1))
}
