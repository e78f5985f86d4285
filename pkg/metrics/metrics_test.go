package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveEnrollment(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry(), "appointments")

	m.ObserveEnrollment("committed")
	m.ObserveEnrollment("committed")
	m.ObserveEnrollment("CAPACITY_EXCEEDED")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EnrollmentOutcomes.WithLabelValues("committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EnrollmentOutcomes.WithLabelValues("CAPACITY_EXCEEDED")))
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAvailability("grid", "open")
		m.ObserveEnrollment("committed")
		m.ObserveCacheLookup("service", "hit")
	})
}
