package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	pollCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "upmon",
			Subsystem: "monitor",
			Name:      "poll_cycles_total",
			Help:      "Number of completed poll cycles by result.",
		}, []string{"result"},
	)
	reconcileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "upmon",
			Subsystem: "monitor",
			Name:      "reconcile_duration_seconds",
			Help:      "Observed duration of one reconcile pass.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	servicesTracked = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "upmon",
			Subsystem: "monitor",
			Name:      "services_tracked",
			Help:      "Number of services currently tracked.",
		},
	)
	serviceState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "upmon",
			Subsystem: "service",
			Name:      "current_state",
			Help:      "Current state of services (1 = active state, 0 = inactive).",
		}, []string{"name", "state"},
	)
	stateTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "upmon",
			Subsystem: "service",
			Name:      "state_transitions_total",
			Help:      "Number of state transitions between service states.",
		}, []string{"name", "from", "to"},
	)
	serviceAvailability = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "upmon",
			Subsystem: "service",
			Name:      "availability_percent",
			Help:      "Availability percentage over the observed lifetime.",
		}, []string{"name"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{pollCycles, reconcileDuration, servicesTracked, serviceState, stateTransitions, serviceAvailability, processCPU, processMemoryMB}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler serving Prometheus metrics for the DefaultGatherer.
func Handler() http.Handler { return promhttp.Handler() }

// Below are lightweight helpers used by internal packages to record metrics.
// They no-op if Register hasn't been called.

func IncPollCycle(result string) {
	if regOK.Load() {
		pollCycles.WithLabelValues(result).Inc()
	}
}

func ObserveReconcileDuration(seconds float64) {
	if regOK.Load() {
		reconcileDuration.Observe(seconds)
	}
}

func SetServicesTracked(n int) {
	if regOK.Load() {
		servicesTracked.Set(float64(n))
	}
}

func SetServiceState(name, state string, active bool) {
	if regOK.Load() {
		var v float64
		if active {
			v = 1
		}
		serviceState.WithLabelValues(name, state).Set(v)
	}
}

func RecordStateTransition(name, from, to string) {
	if regOK.Load() {
		stateTransitions.WithLabelValues(name, from, to).Inc()
	}
}

func SetAvailability(name string, pct float64) {
	if regOK.Load() {
		serviceAvailability.WithLabelValues(name).Set(pct)
	}
}
