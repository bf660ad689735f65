package ticker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/collectra/backend/internal/websocket"
)

// TimeMessage represents the heartbeat message sent to clients
type TimeMessage struct {
	Type       string `json:"type"` // always "heartbeat"
	Timestamp  string `json:"timestamp"`
	ServerTime int64  `json:"serverTime"`
}

// Ticker periodically broadcasts heartbeats so dashboard clients can detect
// a stalled connection between portfolio snapshots.
type Ticker struct {
	hub      *websocket.Hub
	interval time.Duration
	logger   zerolog.Logger
}

// NewTicker creates a new Ticker
func NewTicker(hub *websocket.Hub, interval time.Duration, logger zerolog.Logger) *Ticker {
	return &Ticker{
		hub:      hub,
		interval: interval,
		logger:   logger.With().Str("component", "ticker").Logger(),
	}
}

// Start begins broadcasting heartbeats
func (t *Ticker) Start(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info().Dur("interval", t.interval).Msg("ticker started")

	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Msg("ticker stopped")
			return

		case now := <-ticker.C:
			if t.hub.ClientCount() == 0 {
				continue
			}

			message := TimeMessage{
				Type:       "heartbeat",
				Timestamp:  now.Format(time.RFC3339),
				ServerTime: now.Unix(),
			}

			data, err := json.Marshal(message)
			if err != nil {
				t.logger.Error().Err(err).Msg("failed to marshal heartbeat")
				continue
			}

			t.hub.Broadcast(data)
		}
	}
}
