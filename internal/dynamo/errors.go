package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a body with NaN or Inf in position or velocity.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrOutOfBounds indicates a body observed outside the collision domain.
	ErrOutOfBounds = errors.New("dynamo: body outside domain bounds")

	// ErrContextCanceled indicates the run was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrUnknownIntegrator indicates a registry lookup miss.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")
)

// SimulationError wraps an error with the frame it was detected on.
type SimulationError struct {
	Frame   int
	Time    float64
	Body    Body
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
