package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration pipeline.
type Metrics struct {
	// Stage latencies by stage and result
	StageLatency *prometheus.HistogramVec

	// Final case outcomes by status
	CaseOutcome *prometheus.CounterVec

	// Per-document verification results
	DocumentsChecked *prometheus.CounterVec

	// Screening answers that needed the deterministic fallback
	ScreeningFallbacks prometheus.Counter

	// Overall run latency
	RunLatency prometheus.Histogram
}

// New registers the registration metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "civreg_registration_stage_duration_seconds",
			Help:    "Duration of registration pipeline stages",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage", "result"}), // result: "ok", "skipped", "error"

		CaseOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "civreg_registration_outcomes_total",
			Help: "Total registration outcomes by status",
		}, []string{"status"}),

		DocumentsChecked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "civreg_registration_documents_total",
			Help: "Documents checked by verification result",
		}, []string{"verified"}),

		ScreeningFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "civreg_registration_screening_fallbacks_total",
			Help: "Screening answers that were not a known status",
		}),

		RunLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "civreg_registration_run_duration_seconds",
			Help:    "Duration of a full registration run",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}

func (m *Metrics) ObserveStage(stage, result string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage, result).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementOutcome(status string) {
	if m != nil {
		m.CaseOutcome.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncrementDocument(verified bool) {
	if m == nil {
		return
	}
	label := "false"
	if verified {
		label = "true"
	}
	m.DocumentsChecked.WithLabelValues(label).Inc()
}

func (m *Metrics) IncrementFallback() {
	if m != nil {
		m.ScreeningFallbacks.Inc()
	}
}

func (m *Metrics) ObserveRun(d time.Duration) {
	if m != nil {
		m.RunLatency.Observe(d.Seconds())
	}
}
