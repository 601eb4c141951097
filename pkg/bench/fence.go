package bench

import "sync/atomic"

// Fence is a reusable N-party rendezvous barrier (C6). Unlike
// sync.WaitGroup, the same Fence instance can be synced on repeatedly by
// the same N goroutines without re-construction.
type Fence struct {
	n        int64
	arrived  atomic.Int64
	released atomic.Int64
}

// NewFence constructs a barrier for exactly n parties.
func NewFence(n int) *Fence {
	return &Fence{n: int64(n)}
}

// Sync blocks the caller until all n parties have called Sync. It is safe
// to call repeatedly with the same Fence and the same set of goroutines.
func (f *Fence) Sync() {
	for f.released.Load() != 0 {
		// a previous round is still draining; wait for it to finish
		// resetting before this round starts arriving.
	}

	if f.arrived.Add(1) == f.n {
		// last arrival: nothing else to wait for before releasing.
	} else {
		for f.arrived.Load() != f.n {
		}
	}

	if f.released.Add(1) == f.n {
		f.arrived.CompareAndSwap(f.n, 0)
		f.released.CompareAndSwap(f.n, 0)
	} else {
		for f.released.Load() != 0 {
		}
	}
}
