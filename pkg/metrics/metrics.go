// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TurnsTotal tracks stored conversation turns by role.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Total conversation turns stored",
		},
		[]string{"role"},
	)

	// ConversationsTotal tracks total conversations created.
	ConversationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_conversations_total",
			Help: "Total conversations created",
		},
	)

	// CrisisDetectionsTotal tracks messages matching the crisis lexicon.
	CrisisDetectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_crisis_detections_total",
			Help: "Total messages that triggered the crisis response",
		},
	)

	// SentimentRequestDuration tracks sentiment classifier call duration.
	SentimentRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_request_duration_seconds",
			Help:    "Sentiment classifier call duration",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 3, 5},
		},
		[]string{"status"},
	)

	// SentimentFallbacksTotal tracks classifications that fell back to neutral.
	SentimentFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentiment_fallbacks_total",
			Help: "Sentiment classifications that degraded to the neutral default",
		},
	)

	// LLMRequestDuration tracks generation call duration.
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "LLM completion call duration",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60},
		},
		[]string{"provider", "status"},
	)

	// LLMRetriesTotal tracks rate-limited generation attempts that were retried.
	LLMRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "llm_retries_total",
			Help: "Rate-limited LLM attempts that triggered a backoff retry",
		},
	)

	// LLMFallbacksTotal tracks replies served from the canned fallback bank.
	LLMFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_fallbacks_total",
			Help: "Replies served from the sentiment-keyed fallback bank",
		},
		[]string{"sentiment"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordSentiment records metrics for a sentiment classifier call.
func RecordSentiment(status string, duration float64) {
	SentimentRequestDuration.WithLabelValues(status).Observe(duration)
}

// RecordLLMRequest records metrics for a generation call.
func RecordLLMRequest(provider, status string, duration float64) {
	LLMRequestDuration.WithLabelValues(provider, status).Observe(duration)
}
