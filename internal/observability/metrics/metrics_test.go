package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteMetricsObserve(t *testing.T) {
	m := NewSiteMetrics(prometheus.NewRegistry())
	m.ObserveSubmission(OutcomeAccepted)
	m.ObserveSubmission(OutcomeAccepted)
	m.ObserveSubmission(OutcomeInvalid)
	m.ObserveValidationError("email")
	m.ObserveFieldUpdate("name")
	m.ObserveFAQToggle(3)
	m.ObserveSubmissionLatency(1.0)
	m.SetActiveVisitors(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissionsTotal.WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissionsTotal.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationErrors.WithLabelValues("email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.faqTogglesTotal.WithLabelValues("3")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.activeVisitorGauge))
}

func TestSiteMetricsSubmissionLatencyHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSiteMetrics(reg)
	m.ObserveSubmissionLatency(1.0)
	m.ObserveSubmissionLatency(0.2)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	var family *dto.MetricFamily
	for _, mf := range mfs {
		if mf.GetName() == "blake_site_contact_submission_seconds" {
			family = mf
			break
		}
	}
	require.NotNil(t, family)
	require.Len(t, family.Metric, 1)

	h := family.Metric[0].GetHistogram()
	require.NotNil(t, h)
	assert.Equal(t, uint64(2), h.GetSampleCount())
	assert.InDelta(t, 1.2, h.GetSampleSum(), 1e-9)
	for _, b := range h.Bucket {
		if b.GetUpperBound() == 1 {
			assert.Equal(t, uint64(2), b.GetCumulativeCount())
		}
	}
}

func TestSiteMetricsDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewSiteMetrics(reg)
	assert.Panics(t, func() { NewSiteMetrics(reg) })
}

func TestSiteMetricsNilSafe(t *testing.T) {
	var m *SiteMetrics
	m.ObserveSubmission(OutcomeFailed)
	m.ObserveValidationError("name")
	m.ObserveFieldUpdate("name")
	m.ObserveFAQToggle(0)
	m.ObserveSubmissionLatency(0.1)
	m.SetActiveVisitors(1)
}
