package aggregator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/collectra/backend/internal/alerts"
	"github.com/collectra/backend/internal/registry"
	"github.com/collectra/backend/internal/types"
	"github.com/collectra/backend/internal/websocket"
)

// PortfolioSource provides the aggregated case view
type PortfolioSource interface {
	PortfolioSnapshot() types.PortfolioSnapshot
}

// Aggregator periodically assembles the portfolio snapshot and broadcasts it
// to connected dashboard clients.
type Aggregator struct {
	source   PortfolioSource
	registry *registry.AgentRegistry
	hub      *websocket.Hub
	interval time.Duration
	logger   zerolog.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(source PortfolioSource, reg *registry.AgentRegistry, hub *websocket.Hub, interval time.Duration, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		source:   source,
		registry: reg,
		hub:      hub,
		interval: interval,
		logger:   logger.With().Str("component", "aggregator").Logger(),
	}
}

// Start begins assembling and broadcasting snapshots
func (a *Aggregator) Start(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info().Dur("interval", a.interval).Msg("aggregator started")

	for {
		select {
		case <-ctx.Done():
			a.logger.Info().Msg("aggregator stopped")
			return

		case <-ticker.C:
			if a.hub.ClientCount() == 0 {
				continue
			}

			snapshot := a.Snapshot()
			data, err := json.Marshal(snapshot)
			if err != nil {
				a.logger.Error().Err(err).Msg("failed to marshal portfolio snapshot")
				continue
			}

			a.hub.Broadcast(data)

			a.logger.Debug().
				Int("total_cases", snapshot.TotalCases).
				Int("breached_cases", snapshot.BreachedCases).
				Int("agents", len(snapshot.Agents)).
				Int("clients", a.hub.ClientCount()).
				Msg("portfolio snapshot broadcasted")
		}
	}
}

// Snapshot assembles the portfolio view with per-agent workload rows and
// workload alerts applied.
func (a *Aggregator) Snapshot() types.PortfolioSnapshot {
	snapshot := a.source.PortfolioSnapshot()

	agents := a.registry.ListAll()
	workloads := make([]types.AgentWorkload, 0, len(agents))
	for i := range agents {
		workloads = append(workloads, types.AgentWorkload{
			AgentID:        agents[i].AgentID,
			Name:           agents[i].Name,
			Region:         agents[i].Region,
			Load:           agents[i].Load,
			Capacity:       agents[i].Capacity,
			Utilization:    agents[i].Utilization(),
			SLABreaches:    agents[i].SLABreaches,
			TotalRecovered: agents[i].TotalRecovered,
		})
	}
	alerts.CheckAgentWorkloads(workloads)

	snapshot.Agents = workloads
	return snapshot
}
