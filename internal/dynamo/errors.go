package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for trajectory generation and embedding.
var (
	// ErrUnstable indicates the integration diverged (NaN or Inf in the state).
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownIntegrator indicates an integration scheme name that is not registered.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrUnknownParameter indicates a parameter name a system does not expose.
	ErrUnknownParameter = errors.New("dynamo: unknown parameter")

	// ErrDimensionMismatch indicates mismatched state dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with the integration step it occurred at.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
