// Package dynamo provides the core types shared by the ball simulation.
//
// The package defines the state and parameter types every other package
// agrees on:
//
//   - [Body]: position and velocity of the ball in simulation units
//   - [Constants]: gravity, damping, domain size and timestep
//   - [Integrator]: advances a body by one fixed timestep
//   - [Contact]: which walls a step reflected off
//   - [Metric], [Observer]: hooks the host loop feeds every frame
//
// # Example
//
//	integ := integrators.NewSymplectic(consts)
//	b := dynamo.NewBody(mgl64.Vec2{0.2, 0.2}, mgl64.Vec2{10, 15})
//	contact := integ.Step(b, frameDt)
//
// # Thread Safety
//
// A Body has a single writer. Integrators hold only immutable constants and
// may be shared, but a Body must not be stepped from two goroutines.
package dynamo
