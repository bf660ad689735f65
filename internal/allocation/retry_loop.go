package allocation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PendingAllocator retries allocation for cases left waiting by a saturated pool
type PendingAllocator interface {
	RetryPending() int
}

// RetryLoop periodically re-attempts allocation for prioritized cases that
// found no capacity at intake. The engine itself never loops; backpressure
// stays visible here.
type RetryLoop struct {
	svc      PendingAllocator
	interval time.Duration
	logger   zerolog.Logger
}

// NewRetryLoop creates a RetryLoop
func NewRetryLoop(svc PendingAllocator, interval time.Duration, logger zerolog.Logger) *RetryLoop {
	return &RetryLoop{
		svc:      svc,
		interval: interval,
		logger:   logger.With().Str("component", "retry_loop").Logger(),
	}
}

// Start begins the retry loop, ticking until the context is cancelled
func (rl *RetryLoop) Start(ctx context.Context) {
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()

	rl.logger.Info().Dur("interval", rl.interval).Msg("allocation retry loop started")

	for {
		select {
		case <-ctx.Done():
			rl.logger.Info().Msg("allocation retry loop stopped")
			return
		case <-ticker.C:
			if allocated := rl.svc.RetryPending(); allocated > 0 {
				rl.logger.Info().Int("allocated", allocated).Msg("pending cases allocated on retry")
			}
		}
	}
}
