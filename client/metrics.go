package client

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/drydotai/dry-go/client/internal/apierrors"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dry_client",
			Name:      "requests_total",
			Help:      "API calls issued by the SDK, by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	requestSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dry_client",
			Name:      "request_duration_seconds",
			Help:      "Wall time per API call, including configured read retries.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	readRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dry_client",
			Name:      "read_retries_total",
			Help:      "Read calls re-issued after a transport timeout.",
		},
	)
)

// outcomeLabel renders an error as a low-cardinality metric label: "ok" for
// success, otherwise the error kind.
func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var e *apierrors.Error
	if errors.As(err, &e) {
		return strings.ReplaceAll(e.Kind.String(), " ", "_")
	}
	return "error"
}
