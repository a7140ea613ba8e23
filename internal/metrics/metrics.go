// Package metrics defines the module's Prometheus collectors: a request
// counter, a reached-stops gauge, and a per-phase duration histogram. The
// counter and the gauge are updated by internal/httpapi; no code in the
// module records observations into the phase histogram, so it stays empty.
// This is the ambient observability concern spec §7's
// "logging at info level gates the expensive phases" keeps even though
// spec's Non-goals exclude a full observability layer — grounded on
// xentoshi-lake and OneBusAway-maglev's client_golang wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry bundles the module's collectors behind a single handle so
// internal/httpapi only has to register one thing.
type Registry struct {
	IsochroneRequests   *prometheus.CounterVec
	PhaseDurationSeconds *prometheus.HistogramVec
	ReachedStopsLast    prometheus.Gauge
}

// NewRegistry constructs and registers the module's collectors against r.
func NewRegistry(r prometheus.Registerer) *Registry {
	reg := &Registry{
		IsochroneRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "isochronego",
			Name:      "isochrone_requests_total",
			Help:      "Number of /isochrones requests by outcome.",
		}, []string{"outcome"}),
		PhaseDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "isochronego",
			Name:      "phase_duration_seconds",
			Help:      "Wall-clock duration of each named computation phase.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),
		ReachedStopsLast: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "isochronego",
			Name:      "reached_stops_last",
			Help:      "Number of stops reached by the most recent fan-out.",
		}),
	}

	r.MustRegister(reg.IsochroneRequests, reg.PhaseDurationSeconds, reg.ReachedStopsLast)
	return reg
}
