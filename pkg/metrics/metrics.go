// Package metrics exports registry and light operations to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/urmzd/homectl/pkg/home"
)

// Metrics implements home.Recorder.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	powerState *prometheus.GaugeVec
}

var _ home.Recorder = (*Metrics)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homectl_operations_total",
				Help: "Registry and light operations by result.",
			},
			[]string{"operation", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "homectl_operation_duration_seconds",
				Help:    "Duration of registry and light operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		powerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "homectl_light_power_state",
				Help: "Last observed power state of a light, 1 for on.",
			},
			[]string{"accessory"},
		),
	}
	reg.MustRegister(m.operations)
	reg.MustRegister(m.duration)
	reg.MustRegister(m.powerState)
	return m
}

func (m *Metrics) ObserveOperation(operation string, err error, elapsed time.Duration) {
	m.operations.WithLabelValues(operation, result(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) ObservePowerState(accessoryID string, on bool) {
	v := 0.0
	if on {
		v = 1
	}
	m.powerState.WithLabelValues(accessoryID).Set(v)
}

// result labels an outcome: "ok" or the error kind.
func result(err error) string {
	if err == nil {
		return "ok"
	}
	return string(home.KindOf(err))
}
