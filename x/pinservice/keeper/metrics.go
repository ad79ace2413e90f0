package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PinServiceMetrics holds all Prometheus metrics for the pinservice module
type PinServiceMetrics struct {
	// Slot metrics
	PinsCreated   prometheus.Counter
	PinsCollected prometheus.Counter
	SlotsReleased *prometheus.CounterVec

	// Escrow metrics
	EscrowLocked   prometheus.Counter
	EscrowReleased prometheus.Counter
	EscrowRefunded prometheus.Counter

	// Pinner metrics
	PinnersJoined      prometheus.Counter
	PinnersRemoved     *prometheus.CounterVec
	PinnersDeactivated prometheus.Counter
	FlagsCast          prometheus.Counter

	// Fee metrics
	FeesAccrued   *prometheus.CounterVec
	FeesWithdrawn prometheus.Counter

	// Security metrics
	AuthFailures prometheus.Counter
}

var (
	pinServiceMetricsOnce sync.Once
	pinServiceMetrics     *PinServiceMetrics
)

// NewPinServiceMetrics creates and registers pinservice metrics (singleton pattern)
func NewPinServiceMetrics() *PinServiceMetrics {
	pinServiceMetricsOnce.Do(func() {
		pinServiceMetrics = &PinServiceMetrics{
			PinsCreated: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pinsvc",
				Subsystem: "slots",
				Name:      "pins_created_total",
				Help:      "Total pin requests placed in a slot",
			}),
			PinsCollected: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pinsvc",
				Subsystem: "slots",
				Name:      "pins_collected_total",
				Help:      "Total replication payments collected by pinners",
			}),
			SlotsReleased: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pinsvc",
					Subsystem: "slots",
					Name:      "released_total",
					Help:      "Total slots freed, by reason",
				},
				[]string{"reason"},
			),

			EscrowLocked: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pinsvc",
				Subsystem: "escrow",
				Name:      "locked_total",
				Help:      "Total amount escrowed by publishers",
			}),
			EscrowReleased: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pinsvc",
				Subsystem: "escrow",
				Name:      "released_total",
				Help:      "Total escrow paid out to pinners",
			}),
			EscrowRefunded: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pinsvc",
				Subsystem: "escrow",
				Name:      "refunded_total",
				Help:      "Total escrow refunded to publishers",
			}),

			PinnersJoined: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pinsvc",
				Subsystem: "pinners",
				Name:      "joined_total",
				Help:      "Total pinner registrations",
			}),
			PinnersRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pinsvc",
					Subsystem: "pinners",
					Name:      "removed_total",
					Help:      "Total pinner deregistrations, by reason",
				},
				[]string{"reason"},
			),
			PinnersDeactivated: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pinsvc",
				Subsystem: "pinners",
				Name:      "deactivated_total",
				Help:      "Total pinners deactivated by reaching the flag threshold",
			}),
			FlagsCast: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pinsvc",
				Subsystem: "pinners",
				Name:      "flags_total",
				Help:      "Total flags cast against pinners",
			}),

			FeesAccrued: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pinsvc",
					Subsystem: "fees",
					Name:      "accrued_total",
					Help:      "Total fees credited, by source",
				},
				[]string{"source"},
			),
			FeesWithdrawn: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pinsvc",
				Subsystem: "fees",
				Name:      "withdrawn_total",
				Help:      "Total fees withdrawn by admins",
			}),

			AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pinsvc",
				Subsystem: "security",
				Name:      "auth_failures_total",
				Help:      "Total operations rejected for missing proof of control",
			}),
		}
	})
	return pinServiceMetrics
}
