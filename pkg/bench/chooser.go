package bench

import "math/rand"

// OperationKind names one of the ten synthesizable operations.
type OperationKind int

const (
	OpUpsert OperationKind = iota
	OpUpdate
	OpRemove
	OpRead
	OpReadModifyWrite
	OpBatchUpsert
	OpBatchRead
	OpBulkLoad
	OpRangeSelect
	OpScan
)

func (k OperationKind) String() string {
	switch k {
	case OpUpsert:
		return "upsert"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	case OpRead:
		return "read"
	case OpReadModifyWrite:
		return "read_modify_write"
	case OpBatchUpsert:
		return "batch_upsert"
	case OpBatchRead:
		return "batch_read"
	case OpBulkLoad:
		return "bulk_load"
	case OpRangeSelect:
		return "range_select"
	case OpScan:
		return "scan"
	default:
		return "unknown"
	}
}

type weightedOp struct {
	kind   OperationKind
	weight float64
}

// Chooser is a weighted discrete sampler over operation kinds (C3). Weights
// are normalized lazily against their running sum; a zero-weight kind is
// never registered, so it can never be returned.
type Chooser struct {
	ops []weightedOp
	sum float64
	rng *rand.Rand
}

// NewChooser constructs an empty chooser drawing from rng.
func NewChooser(rng *rand.Rand) *Chooser {
	return &Chooser{rng: rng}
}

// Add registers an operation kind with the given weight, in registration
// order. A weight <= 0 is ignored.
func (c *Chooser) Add(kind OperationKind, weight float64) {
	if weight <= 0 {
		return
	}
	c.ops = append(c.ops, weightedOp{kind: kind, weight: weight})
	c.sum += weight
}

// Choose draws u in [0,1) and returns the first registered kind whose
// cumulative normalized weight exceeds u.
func (c *Chooser) Choose() OperationKind {
	u := c.rng.Float64()
	var cumulative float64
	for _, op := range c.ops {
		cumulative += op.weight / c.sum
		if u < cumulative {
			return op.kind
		}
	}
	return c.ops[len(c.ops)-1].kind
}

// NewWorkloadChooser builds the operation chooser for a workload, registering
// operations in the fixed order of §4.4.2 so that results are reproducible
// given the same seed.
func NewWorkloadChooser(w *Workload, rng *rand.Rand) *Chooser {
	c := NewChooser(rng)
	c.Add(OpUpsert, w.UpsertProportion)
	c.Add(OpUpdate, w.UpdateProportion)
	c.Add(OpRemove, w.RemoveProportion)
	c.Add(OpRead, w.ReadProportion)
	c.Add(OpReadModifyWrite, w.ReadModifyWriteProportion)
	c.Add(OpBatchUpsert, w.BatchUpsertProportion)
	c.Add(OpBatchRead, w.BatchReadProportion)
	c.Add(OpBulkLoad, w.BulkLoadProportion)
	c.Add(OpRangeSelect, w.RangeSelectProportion)
	c.Add(OpScan, w.ScanProportion)
	return c
}
