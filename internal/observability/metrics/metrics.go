package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes recorded by ObserveSubmission.
const (
	OutcomeAccepted = "accepted"
	OutcomeInvalid  = "invalid"
	OutcomeInFlight = "in_flight"
	OutcomeDone     = "completed"
	OutcomeFailed   = "failed"
)

// SiteMetrics exposes counters/histograms for the contact form and FAQ.
type SiteMetrics struct {
	submissionsTotal   *prometheus.CounterVec
	validationErrors   *prometheus.CounterVec
	fieldUpdatesTotal  *prometheus.CounterVec
	faqTogglesTotal    *prometheus.CounterVec
	submissionLatency  prometheus.Histogram
	activeVisitorGauge prometheus.Gauge
}

func NewSiteMetrics(reg prometheus.Registerer) *SiteMetrics {
	m := &SiteMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blake_site",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submission attempts by outcome",
		}, []string{"outcome"}),
		validationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blake_site",
			Subsystem: "contact",
			Name:      "validation_errors_total",
			Help:      "Field validation failures reported on submit",
		}, []string{"field"}),
		fieldUpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blake_site",
			Subsystem: "contact",
			Name:      "field_updates_total",
			Help:      "Contact form field edits",
		}, []string{"field"}),
		faqTogglesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blake_site",
			Subsystem: "faq",
			Name:      "toggles_total",
			Help:      "FAQ accordion toggles by entry",
		}, []string{"index"}),
		submissionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "blake_site",
			Subsystem: "contact",
			Name:      "submission_seconds",
			Help:      "Time spent in the submitting state",
			Buckets:   prometheus.DefBuckets,
		}),
		activeVisitorGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blake_site",
			Subsystem: "session",
			Name:      "active_visitors",
			Help:      "Visitors currently held in memory",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.submissionsTotal,
		m.validationErrors,
		m.fieldUpdatesTotal,
		m.faqTogglesTotal,
		m.submissionLatency,
		m.activeVisitorGauge,
	)
	return m
}

func (m *SiteMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *SiteMetrics) ObserveValidationError(field string) {
	if m == nil {
		return
	}
	m.validationErrors.WithLabelValues(field).Inc()
}

func (m *SiteMetrics) ObserveFieldUpdate(field string) {
	if m == nil {
		return
	}
	m.fieldUpdatesTotal.WithLabelValues(field).Inc()
}

func (m *SiteMetrics) ObserveFAQToggle(index int) {
	if m == nil {
		return
	}
	m.faqTogglesTotal.WithLabelValues(strconv.Itoa(index)).Inc()
}

func (m *SiteMetrics) ObserveSubmissionLatency(seconds float64) {
	if m == nil {
		return
	}
	m.submissionLatency.Observe(seconds)
}

func (m *SiteMetrics) SetActiveVisitors(n int) {
	if m == nil {
		return
	}
	m.activeVisitorGauge.Set(float64(n))
}
