package app

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HostMetrics holds the Prometheus metrics of the host.
type HostMetrics struct {
	BlockHeight       prometheus.Gauge
	Operations        *prometheus.CounterVec
	OperationLatency  *prometheus.HistogramVec
	InvariantFailures prometheus.Counter
	IndexFailures     prometheus.Counter
}

var (
	hostMetricsOnce     sync.Once
	hostMetricsInstance *HostMetrics
)

// NewHostMetrics returns the process-wide host metrics.
func NewHostMetrics() *HostMetrics {
	hostMetricsOnce.Do(func() {
		hostMetricsInstance = &HostMetrics{
			BlockHeight: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "pinsvc",
				Subsystem: "host",
				Name:      "block_height",
				Help:      "Height of the last committed block",
			}),
			Operations: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "pinsvc",
				Subsystem: "host",
				Name:      "operations_total",
				Help:      "Delivered operations by outcome",
			}, []string{"operation", "outcome"}),
			OperationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "pinsvc",
				Subsystem: "host",
				Name:      "operation_seconds",
				Help:      "Operation execution time",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
			}, []string{"operation"}),
			InvariantFailures: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pinsvc",
				Subsystem: "host",
				Name:      "invariant_failures_total",
				Help:      "Commits refused because an invariant was broken",
			}),
			IndexFailures: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pinsvc",
				Subsystem: "host",
				Name:      "index_failures_total",
				Help:      "Event batches the indexer failed to store",
			}),
		}
	})
	return hostMetricsInstance
}
