package transduce

import (
	"fmt"

	"github.com/kbukum/reducekit/errors"
)

var (
	// ErrSinkClosed is returned by a Sink that no longer accepts items.
	// The sink adapter turns it into Stop; it never reaches the driver's caller.
	ErrSinkClosed = errors.New(errors.ErrCodeSinkClosed, "sink is closed")

	// ErrStopped is returned by Feeder.Feed after the stack signalled Stop.
	ErrStopped = errors.ReductionStopped()

	// ErrFinished is returned by Feeder.Close when Finish already ran.
	ErrFinished = errors.ReductionFinished()
)

// TransformError reports that a user-supplied transform or predicate failed
// on Input. The reduction that produced it is abandoned without Finish.
type TransformError struct {
	Input any
	Cause error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform failed on input %v: %v", e.Input, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TransformError) Unwrap() error { return e.Cause }

// Code classifies the error for callers that switch on errors.ErrorCode.
func (e *TransformError) Code() errors.ErrorCode { return errors.ErrCodeTransformFailed }

func transformError(in any, err error) error {
	return &TransformError{Input: in, Cause: err}
}
