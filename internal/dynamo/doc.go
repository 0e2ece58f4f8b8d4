// Package dynamo provides the numerical primitives shared by the trajectory
// integrator and the analysis tools.
//
//   - [State]: vector representing a system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical scheme
//
// # Errors
//
// Configuration problems wrap [ErrParameterBounds] or [ErrUnknownIntegrator];
// a diverging trajectory is reported as a [*SimulationError] wrapping
// [ErrUnstable]. Use errors.Is to classify them.
package dynamo
