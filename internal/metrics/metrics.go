package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dragonfire"

// Metrics holds the collectors of the view model on a private registry
type Metrics struct {
	registry *prometheus.Registry

	ReadFailures *prometheus.CounterVec
	Refreshes    *prometheus.CounterVec
	TxOutcomes   *prometheus.CounterVec
	Locked       prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		ReadFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_failures_total",
			Help:      "Number of failed chain reads by field",
		}, []string{"field"}),
		Refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Number of issued refreshes by scope",
		}, []string{"scope"}),
		TxOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_outcomes_total",
			Help:      "Number of finished transactions by kind and outcome",
		}, []string{"kind", "outcome"}),
		Locked: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "locked",
			Help:      "1 once the collection is observed locked",
		}),
	}
}

func (m *Metrics) ReadFailed(field string) {
	m.ReadFailures.WithLabelValues(field).Inc()
}

func (m *Metrics) Refreshed(scope string) {
	m.Refreshes.WithLabelValues(scope).Inc()
}

func (m *Metrics) TxFinished(kind, outcome string) {
	m.TxOutcomes.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveLocked(locked bool) {
	if locked {
		m.Locked.Set(1)
		return
	}
	m.Locked.Set(0)
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
