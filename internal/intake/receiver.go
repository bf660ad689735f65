package intake

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/collectra/backend/internal/casefile"
	"github.com/collectra/backend/internal/types"
)

// Receiver handles batched case feeds pushed by upstream originator systems.
// Single-case intake goes through the public REST API; this endpoint exists
// for the nightly delinquency file.
type Receiver struct {
	service       *casefile.Service
	logger        zerolog.Logger
	casesReceived int64
	lastReceived  time.Time
	mu            sync.RWMutex
}

// NewReceiver creates a new batch intake receiver
func NewReceiver(service *casefile.Service, logger zerolog.Logger) *Receiver {
	return &Receiver{
		service: service,
		logger:  logger.With().Str("component", "intake").Logger(),
	}
}

// batchResult summarizes one processed batch
type batchResult struct {
	Received  int      `json:"received"`
	Created   int      `json:"created"`
	Rejected  int      `json:"rejected"`
	Queued    int      `json:"queued"` // created but waiting for capacity
	CaseIDs   []string `json:"caseIds"`
	RejectRef []string `json:"rejectedRefs,omitempty"`
}

// HandleBatch receives a JSON array of case intakes and ingests each one.
// Invalid entries are skipped, not fatal: the rest of the batch still lands.
func (r *Receiver) HandleBatch(w http.ResponseWriter, req *http.Request) {
	var batch []casefile.CaseIntake
	if err := json.NewDecoder(req.Body).Decode(&batch); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode intake batch")
		http.Error(w, `{"error":"invalid batch payload"}`, http.StatusBadRequest)
		return
	}

	result := batchResult{Received: len(batch), CaseIDs: make([]string, 0, len(batch))}
	for _, intake := range batch {
		if intake.DebtorRef == "" || intake.Region == "" || intake.Amount <= 0 || intake.AgeDays < 0 {
			result.Rejected++
			result.RejectRef = append(result.RejectRef, intake.DebtorRef)
			continue
		}

		c, err := r.service.Ingest(intake)
		if err != nil {
			result.Rejected++
			result.RejectRef = append(result.RejectRef, intake.DebtorRef)
			continue
		}
		result.Created++
		result.CaseIDs = append(result.CaseIDs, c.CaseID)
		if c.Status == types.StatusPrioritized {
			result.Queued++
		}
	}

	atomic.AddInt64(&r.casesReceived, int64(result.Created))
	r.mu.Lock()
	r.lastReceived = time.Now()
	r.mu.Unlock()

	r.logger.Info().
		Int("received", result.Received).
		Int("created", result.Created).
		Int("rejected", result.Rejected).
		Int("queued", result.Queued).
		Msg("intake batch processed")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GetStats returns receiver statistics
func (r *Receiver) GetStats(w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	lastReceived := r.lastReceived
	r.mu.RUnlock()

	stats := map[string]interface{}{
		"cases_received": atomic.LoadInt64(&r.casesReceived),
		"last_received":  lastReceived,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
