package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VotesToggled counts vote toggles by target kind and resulting state.
	VotesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_votes_toggled_total",
		Help: "Total number of vote toggles by target and result",
	}, []string{"target", "result"})

	// QuestionsCreated counts created questions by entry point.
	QuestionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_questions_created_total",
		Help: "Total number of questions created",
	}, []string{"source"})

	// AnswersCreated counts created answers.
	AnswersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quorum_answers_created_total",
		Help: "Total number of answers created",
	})

	// WizardSteps counts wizard step submissions by step and outcome.
	WizardSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_wizard_steps_total",
		Help: "Total number of question wizard step submissions",
	}, []string{"step", "outcome"})

	// PermissionDenials counts ownership check failures by resource.
	PermissionDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_permission_denials_total",
		Help: "Total number of denied update/delete attempts",
	}, []string{"resource"})

	// DatabaseQueryLatency records repository operation latency.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quorum_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
