package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCount(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveCollection("ok", 3)
	m.ObserveCollection("no_table", 0)
	m.ObserveSplit("parsed")
	m.ObserveSplit("fallback")
	m.ObserveSplit("fallback")
	m.ObserveQuery(true)
	m.ObserveQuery(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CollectionsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CollectionsTotal.WithLabelValues("no_table")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.IncidentsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SplitsTotal.WithLabelValues("fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCollection("ok", 1)
		m.ObserveSplit("parsed")
		m.ObserveQuery(true)
	})
}
