package storage

import (
	"context"
	"fmt"
	"net"
	"strings"
)

// EngineError wraps a failure from an engine adapter with a stable code and
// the operation that triggered it.
type EngineError struct {
	Code    string
	Op      string
	Cause   error
	Message string
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Engine error codes (§7: configuration, engine-lifecycle, data-access errors).
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeTimeout       = "TIMEOUT"
	ErrCodeIntegrity     = "INTEGRITY_FAILURE"
	ErrCodeEngineOpen    = "ENGINE_OPEN_FAILED"
	ErrCodeEngineClose   = "ENGINE_CLOSE_FAILED"
	ErrCodeTransaction   = "TRANSACTION_FAILED"
	ErrCodeNotImplemented = "NOT_IMPLEMENTED"
	ErrCodeInvalidConfig = "INVALID_CONFIG"
	ErrCodeUnknown       = "UNKNOWN_ERROR"
)

// NewEngineOpenError wraps a failure to open the engine under test.
func NewEngineOpenError(cause error) *EngineError {
	return &EngineError{Code: ErrCodeEngineOpen, Op: "open", Message: "failed to open engine", Cause: cause}
}

// NewTransactionError wraps a failure to create a transaction. Per the
// transactional-mode contract, this is always fatal to the run.
func NewTransactionError(cause error) *EngineError {
	return &EngineError{Code: ErrCodeTransaction, Op: "create_transaction", Message: "failed to create transaction", Cause: cause}
}

// ClassifyStatus maps a raw adapter error to a Data-Access Contract Status.
// Adapters are free to return a Status directly; this helper exists for
// adapters wrapping a driver that only returns Go errors.
func ClassifyStatus(err error) Status {
	if err == nil {
		return StatusOK
	}
	if ee, ok := err.(*EngineError); ok {
		switch ee.Code {
		case ErrCodeNotFound:
			return StatusNotFound
		case ErrCodeNotImplemented:
			return StatusNotImplemented
		default:
			return StatusError
		}
	}
	switch {
	case isNotFoundError(err):
		return StatusNotFound
	case isTimeoutError(err):
		return StatusError
	default:
		return StatusError
	}
}

func isNotFoundError(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not found") || strings.Contains(s, "no such") || strings.Contains(s, "does not exist")
}

func isTimeoutError(err error) bool {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}
	if err == context.DeadlineExceeded {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") || strings.Contains(s, "deadline")
}

// ErrorAggregator collects failures across an orchestrator run that spans
// multiple workloads, so one workload's fatal error doesn't hide another's.
type ErrorAggregator struct {
	operation string
	errors    []error
}

// NewErrorAggregator creates an aggregator labeled with the operation it
// covers (typically a workload name, or "run" for the whole invocation).
func NewErrorAggregator(operation string) *ErrorAggregator {
	return &ErrorAggregator{operation: operation}
}

func (ea *ErrorAggregator) Add(err error) {
	if err != nil {
		ea.errors = append(ea.errors, err)
	}
}

func (ea *ErrorAggregator) HasErrors() bool {
	return len(ea.errors) > 0
}

func (ea *ErrorAggregator) GetAllErrors() []error {
	return ea.errors
}

// CreateAggregateError merges all collected errors into one, or returns nil
// if none were collected.
func (ea *ErrorAggregator) CreateAggregateError() error {
	switch len(ea.errors) {
	case 0:
		return nil
	case 1:
		return ea.errors[0]
	}

	messages := make([]string, len(ea.errors))
	for i, err := range ea.errors {
		messages[i] = err.Error()
	}
	return fmt.Errorf("%s failed for %d workloads: %s", ea.operation, len(ea.errors), strings.Join(messages, "; "))
}
