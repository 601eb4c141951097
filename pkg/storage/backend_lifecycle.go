package storage

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Lifecycle guards an Engine's Open/Flush/Close against being invoked more
// than once, matching the orchestrator's rule that exactly one worker thread
// performs each of these steps even though every thread shares the same
// Engine handle.
type Lifecycle struct {
	engine  Engine
	opened  atomic.Bool
	flushed atomic.Bool
	closed  atomic.Bool
}

// NewLifecycle wraps an engine with once-only Open/Flush/Close semantics.
func NewLifecycle(engine Engine) *Lifecycle {
	return &Lifecycle{engine: engine}
}

// Open calls the engine's Open exactly once across any number of callers.
// Later calls are no-ops returning nil.
func (l *Lifecycle) Open(ctx context.Context) error {
	if !l.opened.CompareAndSwap(false, true) {
		return nil
	}
	if err := l.engine.Open(ctx); err != nil {
		return NewEngineOpenError(err)
	}
	return nil
}

// FlushOnce calls the engine's Flush exactly once. Later calls are no-ops
// returning nil, mirroring the CAS-guarded flush step of the orchestrator.
func (l *Lifecycle) FlushOnce(ctx context.Context) error {
	if !l.flushed.CompareAndSwap(false, true) {
		return nil
	}
	return l.engine.Flush(ctx)
}

// Close calls the engine's Close exactly once.
func (l *Lifecycle) Close(ctx context.Context) error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := l.engine.Close(ctx); err != nil {
		return &EngineError{Code: ErrCodeEngineClose, Op: "close", Message: "failed to close engine", Cause: err}
	}
	return nil
}

// PrepareTransaction creates a transaction on the engine, treating the
// adapter's refusal as fatal: a workload marked transactional cannot proceed
// without one.
func PrepareTransaction(ctx context.Context, engine Engine) (Transaction, error) {
	txn, result := engine.CreateTransaction(ctx)
	switch result.Status {
	case StatusOK:
		return txn, nil
	case StatusNotImplemented:
		return nil, NewTransactionError(fmt.Errorf("adapter does not support transactions"))
	default:
		return nil, NewTransactionError(fmt.Errorf("status %s", result.Status))
	}
}
