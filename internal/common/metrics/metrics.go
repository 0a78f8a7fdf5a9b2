// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Skill outcomes.
const (
	OutcomeModel    = "model"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

var (
	SkillRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_requests_total",
			Help: "Total number of skill invocations by outcome",
		},
		[]string{"skill", "outcome"},
	)

	SkillFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_fallbacks_total",
			Help: "Total number of responses served from the fallback catalog",
		},
		[]string{"skill", "reason"},
	)

	SkillParseFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_parse_failures_total",
			Help: "Model outputs that could not be parsed as JSON",
		},
		[]string{"skill"},
	)

	SkillParseRecoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_parse_recoveries_total",
			Help: "Model outputs parsed only after extracting embedded JSON",
		},
		[]string{"skill"},
	)

	SkillSchemaViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_schema_violations_total",
			Help: "Parsed model outputs that do not match the response schema",
		},
		[]string{"skill"},
	)

	SkillDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skill_duration_seconds",
			Help:    "Duration of skill invocations in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"skill", "outcome"},
	)

	SkillsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "skill_requests_in_flight",
			Help: "Number of skill invocations currently running",
		},
		[]string{"skill"},
	)

	ModelCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_calls_total",
			Help: "Total number of outbound model calls by status",
		},
		[]string{"provider", "status"},
	)

	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_call_duration_seconds",
			Help:    "Duration of outbound model calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"provider"},
	)
)
