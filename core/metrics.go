package core

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "conversation_client_requests_total",
		Help: "Outcome of service calls by operation, method and status code",
	}, []string{
		"operation", // e.g. message, list_workspaces
		"method",    // HTTP method
		"code",      // HTTP status code, or "transport" when no response arrived
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "conversation_client_request_duration_seconds",
		Help:    "Wall-clock duration of service calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "method"})
)

// ObserveRequest records one completed call attempt. status 0 means the
// request never produced a response.
func ObserveRequest(operation, method string, status int, d time.Duration) {
	code := "transport"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	requestTotal.WithLabelValues(operation, method, code).Inc()
	requestDuration.WithLabelValues(operation, method).Observe(d.Seconds())
}
