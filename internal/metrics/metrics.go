// Package metrics defines Prometheus metrics for device-grader.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dg"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_panics_total",
		Help:      "Handler panics recovered by the HTTP middleware.",
	})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 when the last liveness check passed, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 when the last readiness check passed, 0 otherwise.",
	})
)

// Grading metrics.
var (
	GradesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "grades_total",
		Help:      "Total number of grade results computed, by grade and source.",
	}, []string{"grade", "source"})

	GateOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_outcomes_total",
		Help:      "Total number of gate matches, by reason.",
	}, []string{"reason"})

	FinalPrice = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "final_price",
		Help:      "Distribution of computed final prices.",
		Buckets:   prometheus.ExponentialBuckets(10, 2, 9), // 10 .. 2560
	})

	InsufficientDataTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "insufficient_data_total",
		Help:      "Total number of results without a usable base price.",
	})

	ManualPriceOverridesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "manual_price_overrides_total",
		Help:      "Total number of final prices pinned by a user.",
	})
)

// Remote valuation metrics.
var (
	ValuationRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "valuation_requests_total",
		Help:      "Total remote valuation requests, by outcome.",
	}, []string{"outcome"})

	ValuationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "valuation_duration_seconds",
		Help:      "Duration of remote valuation calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	ValuationCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "valuation_cache_hits_total",
		Help:      "Total valuation responses served from cache.",
	})

	ValuationCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "valuation_cache_misses_total",
		Help:      "Total valuation cache lookups that missed.",
	})

	ValuationSupersededTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "valuation_superseded_total",
		Help:      "Total remote responses discarded because the inputs changed.",
	})

	ValuationBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "valuation_breaker_state",
		Help:      "Circuit breaker state for the valuation service (0 closed, 1 half-open, 2 open).",
	})
)

// Session metrics.
var (
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of open audit sessions.",
	})

	SessionsReapedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_reaped_total",
		Help:      "Total number of idle sessions closed by the reaper.",
	})
)
