package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts gateway loads and saves.
//
// A nil *Metrics records nothing.
type Metrics struct {
	Loads       *prometheus.CounterVec
	Saves       *prometheus.CounterVec
	SaveSeconds prometheus.Histogram
}

// NewMetrics creates the gateway metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_gateway_loads_total",
				Help: "Total number of snapshot loads, by result (ok, empty, error, corrupt).",
			},
			[]string{"result"},
		),
		Saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_gateway_saves_total",
				Help: "Total number of snapshot saves, by result (ok, error).",
			},
			[]string{"result"},
		),
		SaveSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_gateway_save_seconds",
				Help:    "Duration of snapshot saves.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.Loads, m.Saves, m.SaveSeconds)
	return m
}

func (m *Metrics) load(result string) {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues(result).Inc()
}

func (m *Metrics) save(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Saves.WithLabelValues(result).Inc()
	m.SaveSeconds.Observe(elapsed.Seconds())
}
