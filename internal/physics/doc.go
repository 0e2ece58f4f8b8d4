// Package physics provides the dynamical system behind the generated data.
//
// [Lorenz] implements [dynamo.System] with the classical convection model
//
//	dx/dt = sigma*(y - x)
//	dy/dt = rho*x - x*z - y
//	dz/dt = x*y - beta*z
//
// and [dynamo.Configurable], which is how the engine applies the configured
// sigma, rho and beta:
//
//	sys := physics.NewLorenz()
//	err := dynamo.Configure(sys, cfg.SystemParams())
package physics
