// Package metrics provides Prometheus observability metrics for the
// allocation engine. Counters cover the case lifecycle end to end; gauges
// track the live shape of the portfolio.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// CasesIngested counts cases entering the system, by risk tier.
var CasesIngested = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "collectra",
	Name:      "cases_ingested_total",
	Help:      "Total cases ingested, by assigned risk tier",
}, []string{"tier"})

// CasesAllocated counts successful allocations, by risk tier.
var CasesAllocated = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "collectra",
	Name:      "cases_allocated_total",
	Help:      "Total cases allocated to an agent, by risk tier",
}, []string{"tier"})

// AllocationsDeferred counts allocation attempts that found no capacity.
var AllocationsDeferred = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "collectra",
	Name:      "allocations_deferred_total",
	Help:      "Allocation attempts deferred because no agent had capacity",
})

// ManualReallocations counts supervisor overrides of engine allocations.
var ManualReallocations = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "collectra",
	Name:      "manual_reallocations_total",
	Help:      "Cases manually reassigned, bypassing the scoring engine",
})

// AllocationScore records the distribution of winning final scores.
var AllocationScore = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "collectra",
	Name:      "allocation_score",
	Help:      "Final score of the winning agent per allocation",
	Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0, 1.25, 1.5},
})

// Interactions counts logged contact attempts by type and result.
var Interactions = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "collectra",
	Name:      "interactions_total",
	Help:      "Interactions logged against cases, by type and result",
}, []string{"type", "result"})

// SOPViolations counts calls placed outside the permitted contact window.
var SOPViolations = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "collectra",
	Name:      "sop_violations_total",
	Help:      "CALL interactions logged outside the permitted contact hours",
})

// Escalations counts cases escalated to supervisory roles.
var Escalations = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "collectra",
	Name:      "escalations_total",
	Help:      "Cases escalated to a supervisory role",
})

// Resolutions counts closed cases by resolution type.
var Resolutions = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "collectra",
	Name:      "resolutions_total",
	Help:      "Cases resolved, by resolution type",
}, []string{"type"})

// SLABreaches counts first-time resolution deadline breaches.
var SLABreaches = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "collectra",
	Name:      "sla_breaches_total",
	Help:      "Cases that breached their resolution deadline, counted once each",
})

// CasesArchived counts resolved cases persisted to the archive store.
var CasesArchived = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "collectra",
	Name:      "cases_archived_total",
	Help:      "Resolved case records written to the archive store",
})

// OpenCases tracks cases in any non-terminal state.
var OpenCases = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "collectra",
	Name:      "open_cases",
	Help:      "Cases currently in a non-terminal state",
})

// PendingAllocation tracks cases waiting for agent capacity.
var PendingAllocation = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "collectra",
	Name:      "pending_allocation",
	Help:      "Prioritized cases waiting for agent capacity",
})

// WebSocketConnections tracks currently connected dashboard clients.
var WebSocketConnections = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "collectra",
	Name:      "websocket_connections",
	Help:      "Currently connected dashboard websocket clients",
})

// HTTPRequests counts handled API requests by method, path pattern and status.
var HTTPRequests = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "collectra",
	Name:      "http_requests_total",
	Help:      "HTTP requests handled, by method, route pattern and status code",
}, []string{"method", "path", "status"})

// Handler exposes the registry in Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
