// Package metrics provides a Prometheus-backed implementation of
// bench.MetricsSink, bridging the harness's named workload counters to an
// external monitoring surface (§4.7/§6).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unum-cloud/ukvsb/pkg/bench"
)

// PrometheusSink publishes every metric the orchestrator reports as a gauge
// labeled by workload name, registered lazily on first use per metric name
// so callers never need to know the fixed set of names in advance.
type PrometheusSink struct {
	registerer prometheus.Registerer
	gauges     map[string]*prometheus.GaugeVec
}

// NewPrometheusSink builds a sink registering its gauges against reg. Pass
// prometheus.DefaultRegisterer to publish through the default /metrics
// handler.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	return &PrometheusSink{
		registerer: reg,
		gauges:     make(map[string]*prometheus.GaugeVec),
	}
}

func (s *PrometheusSink) gaugeFor(name string, unit bench.UnitHint) *prometheus.GaugeVec {
	if g, ok := s.gauges[name]; ok {
		return g
	}

	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ukvsb",
		Name:      name,
		Help:      helpForUnit(name, unit),
	}, []string{"workload"})
	s.registerer.MustRegister(g)
	s.gauges[name] = g
	return g
}

func helpForUnit(name string, unit bench.UnitHint) string {
	switch unit {
	case bench.UnitBytes:
		return name + ", in bytes"
	case bench.UnitPercent:
		return name + ", as a percentage"
	case bench.UnitRate:
		return name + ", per second"
	default:
		return name
	}
}

// Publish implements bench.MetricsSink.
func (s *PrometheusSink) Publish(workload, name string, value float64, unit bench.UnitHint) {
	s.gaugeFor(name, unit).WithLabelValues(workload).Set(value)
}
