package bench

import "sync/atomic"

// Counters are the three shared atomics a workload's workers update on every
// dispatched operation (§4.7 step 4), using relaxed-order add-fetch
// semantics: sync/atomic's Int64 gives us that directly, with no ordering
// guarantee beyond the add itself.
type Counters struct {
	EntriesTouched atomic.Int64
	FailsCount     atomic.Int64
	BytesProcessed atomic.Int64
}

// Add folds one operation's outcome into the shared counters.
func (c *Counters) Add(entriesTouched int, failed bool, bytesProcessed int) {
	c.EntriesTouched.Add(int64(entriesTouched))
	if failed {
		c.FailsCount.Add(1)
	}
	c.BytesProcessed.Add(int64(bytesProcessed))
}

// UnitHint tells a MetricsSink how to interpret a published value.
type UnitHint int

const (
	UnitRate UnitHint = iota
	UnitBytes
	UnitPercent
	UnitCount
)

// MetricsSink is the external collaborator the orchestrator publishes a
// workload's final metrics to (§4.7). The harness itself is agnostic to how
// or where the values end up; see pkg/metrics for one bridge.
type MetricsSink interface {
	Publish(workload string, name string, value float64, unit UnitHint)
}

// MetricsSinkFunc adapts a plain function to MetricsSink.
type MetricsSinkFunc func(workload, name string, value float64, unit UnitHint)

func (f MetricsSinkFunc) Publish(workload, name string, value float64, unit UnitHint) {
	f(workload, name, value, unit)
}

// NopMetricsSink discards every published metric.
var NopMetricsSink MetricsSink = MetricsSinkFunc(func(string, string, float64, UnitHint) {})
