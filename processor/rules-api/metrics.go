package rulesapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reject reasons recorded on semmap_rules_rejected_total.
const (
	reasonMalformed = "malformed"
	reasonDuplicate = "duplicate_name"
	reasonStorage   = "storage"
)

// metrics uses a private registry so several components can coexist in one
// process (and in tests).
type metrics struct {
	registry   *prometheus.Registry
	saved      *prometheus.CounterVec
	rejected   *prometheus.CounterVec
	serialized prometheus.Counter
	ruleCount  *prometheus.GaugeVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		saved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semmap",
			Name:      "rules_saved_total",
			Help:      "Rule documents stored, by transport.",
		}, []string{"transport"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semmap",
			Name:      "rules_rejected_total",
			Help:      "Rule documents rejected, by reason.",
		}, []string{"reason"}),
		serialized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "semmap",
			Name:      "snapshots_serialized_total",
			Help:      "Editor snapshots serialized to TransformRules XML.",
		}),
		ruleCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "semmap",
			Name:      "rules_stored",
			Help:      "Number of rules in the latest stored document, by project.",
		}, []string{"project"}),
	}
	m.registry.MustRegister(m.saved, m.rejected, m.serialized, m.ruleCount)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
