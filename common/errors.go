package common

import (
	"errors"
	"fmt"
)

// Error taxonomy. Each sentinel is matched with errors.Is; wrapping types
// carry the context a caller needs to report the failure without needing a
// type switch. Modeled on the sentinel+Is-method pattern used throughout the
// example corpus's key/value store error types.

// ErrNotImplemented marks a feature that is intentionally absent. It is
// never retried and is reported to the caller verbatim.
var ErrNotImplemented = errors.New("not implemented")

// ErrInvalidInput marks a bind/plan-time failure: schema mismatch, type
// mismatch, unsupported syntax. The statement aborts; the transaction may
// continue.
var ErrInvalidInput = errors.New("invalid input")

// ErrExecution marks a runtime failure during execution (divide by zero,
// null-constraint violation, write conflict).
var ErrExecution = errors.New("execution error")

// ErrWriteConflict is a sub-kind of ErrExecution: the transaction that hit
// it has been tainted and must be aborted by the caller.
var ErrWriteConflict = errors.New("write conflict")

// ErrIO marks a page fault or buffer-pool exhaustion. It is typically fatal
// to the statement that triggered it.
var ErrIO = errors.New("io error")

// ErrTainted names the state of a transaction that a write conflict has
// tainted. Nothing in this module returns it: committing a tainted
// transaction fails with a WriteConflictf error instead.
var ErrTainted = errors.New("transaction is tainted")

// ErrNoTuple is a control-flow sentinel for an exhausted input, not a fault.
// The exec package's executors do not return it: they signal exhaustion
// with their own exec.ErrDone.
var ErrNoTuple = errors.New("no more tuples")

type wrappedError struct {
	msg    string
	target error
}

func (e *wrappedError) Error() string { return e.msg }
func (e *wrappedError) Is(target error) bool {
	return target == e.target
}
func (e *wrappedError) Unwrap() error { return e.target }

// InvalidInputf builds an ErrInvalidInput-compatible error with a formatted
// message, matched by errors.Is(err, ErrInvalidInput).
func InvalidInputf(format string, args ...any) error {
	return &wrappedError{msg: fmt.Sprintf(format, args...), target: ErrInvalidInput}
}

// Executionf builds an ErrExecution-compatible error with a formatted
// message, matched by errors.Is(err, ErrExecution).
func Executionf(format string, args ...any) error {
	return &wrappedError{msg: fmt.Sprintf(format, args...), target: ErrExecution}
}

// WriteConflictf builds an error that satisfies both ErrWriteConflict and
// ErrExecution: WriteConflict is a sub-kind of ExecutionException.
func WriteConflictf(format string, args ...any) error {
	return &conflictError{msg: fmt.Sprintf(format, args...)}
}

type conflictError struct{ msg string }

func (e *conflictError) Error() string { return e.msg }
func (e *conflictError) Is(target error) bool {
	return target == ErrWriteConflict || target == ErrExecution
}

// IOErrorf builds an ErrIO-compatible error with a formatted message.
func IOErrorf(format string, args ...any) error {
	return &wrappedError{msg: fmt.Sprintf(format, args...), target: ErrIO}
}
