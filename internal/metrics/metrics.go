// Package metrics holds the Prometheus collectors for the diary server.
//
// Collectors are registered on the default registry through promauto and
// exposed by the server at GET /metrics.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sakif/mini-diary/internal/apperror"
)

var (
	// OperationsTotal counts diary service calls.
	// Labels: operation (create, get, list, update, delete), outcome (ok, not_found, invalid, error)
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_operations_total",
			Help: "Total number of diary operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// EntriesCount is the number of stored diaries after the last write.
	EntriesCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "diary_entries",
			Help: "Current number of diary entries",
		},
	)

	// ImagesTotal counts image store calls.
	// Labels: action (save, delete, rollback), outcome (ok, error)
	ImagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_images_total",
			Help: "Total number of image store calls",
		},
		[]string{"action", "outcome"},
	)

	// ListPagesTotal counts list requests by requested page bucket.
	ListPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_list_requests_total",
			Help: "Total number of list requests by page range",
		},
		[]string{"page_range"},
	)

	// HTTPRequestDuration tracks latency per route pattern, never per raw
	// path, so /api/diaries/{id} stays one series.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diary_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)
)

// Outcome maps a service error to a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperror.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperror.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

// RecordOperation counts one service call.
func RecordOperation(operation string, err error) {
	OperationsTotal.WithLabelValues(operation, Outcome(err)).Inc()
}

// SetEntries updates the diary count gauge.
func SetEntries(n int) {
	EntriesCount.Set(float64(n))
}

// RecordImage counts one image store call.
func RecordImage(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ImagesTotal.WithLabelValues(action, outcome).Inc()
}

// RecordListPage counts a list request by its page bucket.
func RecordListPage(page int) {
	ListPagesTotal.WithLabelValues(pageRange(page)).Inc()
}

// ObserveHTTP records one finished request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func pageRange(page int) string {
	switch {
	case page <= 1:
		return "1"
	case page <= 10:
		return "2-10"
	case page <= 100:
		return "11-100"
	default:
		return "100+"
	}
}
