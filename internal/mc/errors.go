package mc

import "errors"

// Domain errors for Monte Carlo runs.
var (
	// ErrInvalidConfig indicates a run configuration rejected before any
	// sweep executed.
	ErrInvalidConfig = errors.New("mc: invalid configuration")

	// ErrInvalidState indicates a spin state that violates its
	// representation invariant.
	ErrInvalidState = errors.New("mc: invalid spin state")
)

// SweepError wraps an error with the sweep it occurred in.
type SweepError struct {
	Sweep   int
	Wrapped error
}

func (e *SweepError) Error() string {
	return e.Wrapped.Error()
}

func (e *SweepError) Unwrap() error {
	return e.Wrapped
}
