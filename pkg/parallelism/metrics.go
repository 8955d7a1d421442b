package parallelism

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics counts what the demonstrations did. It owns a private registry so that
// several runners (for example in tests) never collide.
type Metrics struct {
	registry *prometheus.Registry

	ExamplesRun      *prometheus.CounterVec
	ElementsObserved *prometheus.CounterVec
	FailuresCaught   *prometheus.CounterVec
	ExampleDuration  *prometheus.HistogramVec
}

// NewMetrics creates the demonstration metrics and registers them on a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ExamplesRun: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "parallelism",
				Subsystem: "examples",
				Name:      "run_total",
				Help:      "Total number of demonstrations executed",
			},
			[]string{"example"},
		),

		ElementsObserved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "parallelism",
				Subsystem: "elements",
				Name:      "observed_total",
				Help:      "Total number of elements printed or captured by a demonstration",
			},
			[]string{"example"},
		),

		FailuresCaught: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "parallelism",
				Subsystem: "failures",
				Name:      "caught_total",
				Help:      "Total number of deliberately provoked failures that were caught",
			},
			[]string{"example"},
		),

		ExampleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "parallelism",
				Subsystem: "examples",
				Name:      "duration_seconds",
				Help:      "Demonstration duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"example"},
		),
	}

	m.registry.MustRegister(m.ExamplesRun, m.ElementsObserved, m.FailuresCaught, m.ExampleDuration)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteText writes every registered metric in the Prometheus text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
