package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	CollectionsTotal *prometheus.CounterVec // by result kind
	IncidentsTotal   prometheus.Counter
	SplitsTotal      *prometheus.CounterVec // by outcome
	QueriesTotal     *prometheus.CounterVec // by status
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	collections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streetwatch_collections_total",
		Help: "Incident page collections by result kind",
	}, []string{"kind"})

	incidents := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streetwatch_incidents_collected_total",
		Help: "Incident records extracted from the incident page",
	})

	splits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streetwatch_reply_splits_total",
		Help: "Model reply splits by outcome (parsed or fallback)",
	}, []string{"outcome"})

	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streetwatch_queries_total",
		Help: "Pipeline runs by status",
	}, []string{"status"})

	reg.MustRegister(collections, incidents, splits, queries)

	return &Metrics{
		CollectionsTotal: collections,
		IncidentsTotal:   incidents,
		SplitsTotal:      splits,
		QueriesTotal:     queries,
	}
}

func (m *Metrics) ObserveCollection(kind string, records int) {
	if m == nil {
		return
	}
	m.CollectionsTotal.WithLabelValues(kind).Inc()
	m.IncidentsTotal.Add(float64(records))
}

func (m *Metrics) ObserveSplit(outcome string) {
	if m == nil {
		return
	}
	m.SplitsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveQuery(ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.QueriesTotal.WithLabelValues(status).Inc()
}
