package plot

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records chart activity on its own registry.
// A nil *Metrics records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	loads          *prometheus.CounterVec
	staleResponses prometheus.Counter
	renders        *prometheus.CounterVec
	liveSurfaces   prometheus.Gauge
	sessions       prometheus.Gauge
}

// NewMetrics creates a recorder bound to a fresh registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		loads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockview_loads_total",
				Help: "Symbol loads by outcome",
			},
			[]string{"outcome"},
		),
		staleResponses: factory.NewCounter(prometheus.CounterOpts{
			Name: "stockview_stale_responses_total",
			Help: "Load responses discarded because a newer request started",
		}),
		renders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockview_surfaces_acquired_total",
				Help: "Chart surfaces built, by renderer state",
			},
			[]string{"state"},
		),
		liveSurfaces: factory.NewGauge(prometheus.GaugeOpts{
			Name: "stockview_live_surfaces",
			Help: "Chart surfaces currently alive",
		}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "stockview_sessions",
			Help: "Connected chart sessions",
		}),
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) loadFinished(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.loads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) staleResponse() {
	if m == nil {
		return
	}
	m.staleResponses.Inc()
}

func (m *Metrics) surfaceAcquired(state State) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(state.String()).Inc()
	m.liveSurfaces.Inc()
}

func (m *Metrics) surfaceReleased() {
	if m == nil {
		return
	}
	m.liveSurfaces.Dec()
}

func (m *Metrics) sessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

func (m *Metrics) sessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}
