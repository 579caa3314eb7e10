package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the decision module.
type Metrics struct {
	// Evaluation latency by operation
	EvaluateLatency *prometheus.HistogramVec

	// Validations by entity type and score band
	Validations *prometheus.CounterVec

	// Final scores
	Score prometheus.Histogram

	// Flags emitted by code and level
	Flags *prometheus.CounterVec

	// Profiles per batch request
	BatchSize prometheus.Histogram
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the decision metrics on reg. Tests pass a
// fresh registry so repeated construction does not collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EvaluateLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kyc_decision_evaluate_duration_seconds",
			Help:    "Duration of decision operations",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		}, []string{"operation"}), // operation: "validate", "trace", "batch"

		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_decision_validations_total",
			Help: "Total validations by entity type and score band",
		}, []string{"entity_type", "band"}),

		Score: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kyc_decision_score",
			Help:    "Distribution of final validation scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),

		Flags: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_decision_flags_total",
			Help: "Total flags emitted by code and level",
		}, []string{"code", "level"}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kyc_decision_batch_size",
			Help:    "Number of profiles per batch validation",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
	}
}

// ScoreBand buckets a score for the validations counter.
func ScoreBand(score float64) string {
	switch {
	case score >= 0.8:
		return "high"
	case score >= 0.5:
		return "medium"
	case score > 0:
		return "low"
	default:
		return "zero"
	}
}

// ObserveEvaluateLatency records the duration of an operation.
func (m *Metrics) ObserveEvaluateLatency(operation string, d time.Duration) {
	if m != nil {
		m.EvaluateLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// ObserveValidation records the outcome of one validation.
func (m *Metrics) ObserveValidation(entityType string, score float64) {
	if m != nil {
		m.Validations.WithLabelValues(entityType, ScoreBand(score)).Inc()
		m.Score.Observe(score)
	}
}

// IncrementFlag records one emitted flag.
func (m *Metrics) IncrementFlag(code, level string) {
	if m != nil {
		m.Flags.WithLabelValues(code, level).Inc()
	}
}

// ObserveBatchSize records the size of a batch request.
func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}
