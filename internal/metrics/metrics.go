// Package metrics defines the prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restofinder_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restofinder_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "restofinder_http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Search
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restofinder_searches_total",
			Help: "Total number of searches by mode and outcome",
		},
		[]string{"mode", "outcome"}, // outcome: "hit", "empty", "error"
	)

	// Dataset
	DatasetLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "restofinder_dataset_load_duration_seconds",
			Help:    "Time spent reading and parsing the restaurant CSV",
			Buckets: prometheus.DefBuckets,
		},
	)

	DatasetRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "restofinder_dataset_records",
			Help: "Number of restaurants parsed by the latest successful load",
		},
	)

	DatasetSkippedLines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "restofinder_dataset_skipped_lines",
			Help: "Number of malformed lines skipped by the latest successful load",
		},
	)

	// Auth
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restofinder_auth_attempts_total",
			Help: "Total number of signup and login attempts by result",
		},
		[]string{"operation", "result"},
	)
)

// Search outcomes.
const (
	OutcomeHit   = "hit"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}

// RecordSearch records one search. results is ignored when err is non-nil.
func RecordSearch(mode string, results int, err error) {
	outcome := OutcomeHit
	switch {
	case err != nil:
		outcome = OutcomeError
	case results == 0:
		outcome = OutcomeEmpty
	}
	SearchesTotal.WithLabelValues(mode, outcome).Inc()
}

// RecordDatasetLoad records the duration of a dataset load and, on success, its size.
func RecordDatasetLoad(duration time.Duration, records, skipped int, err error) {
	DatasetLoadDuration.Observe(duration.Seconds())
	if err != nil {
		return
	}
	DatasetRecords.Set(float64(records))
	DatasetSkippedLines.Set(float64(skipped))
}

// RecordAuthAttempt records a signup or login attempt.
func RecordAuthAttempt(operation string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}
