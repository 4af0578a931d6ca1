package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
)

var (
	// Total HTTP requests
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP request latency
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Requests currently being served
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Community votes by outcome
	wordVotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "word_votes_total",
			Help: "Total number of community votes by outcome",
		},
		[]string{"vote", "result"},
	)

	// Review state transitions
	wordTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "word_transitions_total",
			Help: "Total number of review state transitions",
		},
		[]string{"from", "to"},
	)

	// Words waiting per review state
	wordReviewQueue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "word_review_queue",
			Help: "Number of words per review state",
		},
		[]string{"state"},
	)

	// Requests rejected by the rate limiter
	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"action"},
	)
)

// MetricsMiddleware collects Prometheus metrics for every HTTP request.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		// Label by route pattern (/api/words/:id)
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// ReviewMetrics implements moderation.Recorder.
type ReviewMetrics struct{}

func (ReviewMetrics) RecordVote(vote model.VoteChoice, result string) {
	choice := string(vote)
	if !vote.Valid() {
		choice = "invalid"
	}
	wordVotesTotal.WithLabelValues(choice, result).Inc()
}

func (ReviewMetrics) RecordTransition(from, to model.ReviewState) {
	wordTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
}

// SetReviewQueue updates the per-state queue gauge.
func SetReviewQueue(counts map[model.ReviewState]int64) {
	for _, state := range model.AllStates {
		wordReviewQueue.WithLabelValues(string(state)).Set(float64(counts[state]))
	}
}

// RecordRateLimited counts a rejected request.
func RecordRateLimited(action string) {
	rateLimitedTotal.WithLabelValues(action).Inc()
}
