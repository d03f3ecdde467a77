package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet = errors.New("p must be set")
	ErrInputMustBeSet    = errors.New("input must be set")
	ErrSourceMustBeSet   = errors.New("source must be set")
	ErrSourceAlreadySet  = errors.New("source already set")
	ErrSinkMustBeSet     = errors.New("sink must be set")
	ErrInvalidQueueSize  = errors.New("queue size must not be negative")
	ErrStepAlreadyLinked = errors.New("step already has a downstream stage")
	ErrStepNotLinked     = errors.New("step has no downstream stage")
	ErrAlreadyRun        = errors.New("pipeline already run")

	// ErrStageClosed is returned by Submit once the stage is draining or done.
	ErrStageClosed = errors.New("stage is closed")
	// ErrStageFaulted is returned by Submit once the stage faulted.
	ErrStageFaulted = errors.New("stage faulted")
	// ErrCancelled is returned by Submit once the run has been cancelled.
	ErrCancelled = errors.New("pipeline cancelled")
)

// FaultError is the cause a stage faulted with.
// When a fault is propagated downstream, the original FaultError is kept
// so Stage names the stage where the fault happened.
type FaultError struct {
	Stage string
	Cause error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("stage %s faulted: %v", e.Stage, e.Cause)
}

func (e *FaultError) Unwrap() error {
	return e.Cause
}

func newFaultError(stage string, cause error) *FaultError {
	var fErr *FaultError
	if errors.As(cause, &fErr) {
		return fErr
	}

	if cause == nil {
		cause = ErrStageFaulted
	}

	return &FaultError{Stage: stage, Cause: cause}
}

// PanicError wraps a value a stage function panicked with.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic recovered: %v", e.Value)
}
