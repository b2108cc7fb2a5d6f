// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Calculation outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// CalculationsTotal counts calculations by type and outcome.
var CalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "finance_engine",
	Subsystem: "calculator",
	Name:      "calculations_total",
	Help:      "Total calculations run, by type and outcome.",
}, []string{"type", "outcome"})

// CalculationDuration tracks how long each calculation type takes.
var CalculationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "finance_engine",
	Subsystem: "calculator",
	Name:      "duration_seconds",
	Help:      "Calculation latency in seconds.",
	Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
}, []string{"type"})

// HTTPRequestsTotal counts API requests by route and status code.
var HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "finance_engine",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total API requests, by route and status code.",
}, []string{"route", "status"})

// HTTPRequestDuration tracks API latency by route.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "finance_engine",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "API request latency in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route"})

// ObserveCalculation records one calculation.
func ObserveCalculation(calcType, outcome string, elapsed time.Duration) {
	CalculationsTotal.WithLabelValues(calcType, outcome).Inc()
	CalculationDuration.WithLabelValues(calcType).Observe(elapsed.Seconds())
}

// ObserveRequest records one API request.
func ObserveRequest(route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
