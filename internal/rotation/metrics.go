package rotation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	namespace = "etqan"
	subsystem = "payroll_rotation"

	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Rotation runs by trigger and final status.",
		},
		[]string{"trigger", "status"},
	)

	employeesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "employees_total",
			Help:      "Employees processed by rotation, by outcome.",
		},
		[]string{"outcome"},
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a rotation run, pacing included.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	runInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "in_flight",
			Help:      "1 while a rotation run is executing in this process.",
		},
	)
)

func observeRun(trigger, status string, elapsed time.Duration, s RunSummary) {
	runsTotal.WithLabelValues(trigger, status).Inc()
	runDuration.Observe(elapsed.Seconds())

	employeesTotal.WithLabelValues(string(OutcomeCreated)).Add(float64(s.Created))
	employeesTotal.WithLabelValues(string(OutcomeAlreadyExists)).Add(float64(s.AlreadyExisted))
	employeesTotal.WithLabelValues(string(OutcomeFailed)).Add(float64(s.Failed))
	employeesTotal.WithLabelValues(string(OutcomeSkipped)).Add(float64(s.Skipped))
}
