package sim

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-logr/logr"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/render"
)

// Renderer is the drawing backend. It receives the ball position already in
// render space.
type Renderer interface {
	Render(pos mgl64.Vec2) error
}

// Simulator is the host loop: once per frame it measures the frame delta,
// steps the integrator, maps the position to render space and hands it to
// the renderer.
type Simulator struct {
	integrator dynamo.Integrator
	mapper     render.Mapper
	clock      Clock
	renderer   Renderer
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	log        logr.Logger
}

func New(integrator dynamo.Integrator, mapper render.Mapper, clock Clock) *Simulator {
	return &Simulator{
		integrator: integrator,
		mapper:     mapper,
		clock:      clock,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		log:        logr.Discard(),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) SetRenderer(r Renderer)        { s.renderer = r }
func (s *Simulator) SetLogger(log logr.Logger)     { s.log = log }

// Frame runs one host frame against b and returns the contact and the render
// position handed to the renderer.
func (s *Simulator) Frame(b *dynamo.Body) (dynamo.Contact, mgl64.Vec2, float64, error) {
	delta := s.clock.Delta()
	contact := s.integrator.Step(b, delta)
	pos := s.mapper.ToRender(b.Position)
	if s.renderer != nil {
		if err := s.renderer.Render(pos); err != nil {
			return contact, pos, delta, fmt.Errorf("render: %w", err)
		}
	}
	return contact, pos, delta, nil
}

func (s *Simulator) Run(ctx context.Context, b *dynamo.Body, cfg dynamo.Config) (*dynamo.Result, error) {
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}

	consts := s.integrator.Constants()
	fixedDt := consts.FixedDt
	result := &dynamo.Result{
		Positions:   make([]mgl64.Vec2, 0, cfg.Frames+1),
		Velocities:  make([]mgl64.Vec2, 0, cfg.Frames+1),
		Contacts:    make([]dynamo.Contact, 0, cfg.Frames+1),
		Times:       make([]float64, 0, cfg.Frames+1),
		FrameDeltas: make([]float64, 0, cfg.Frames+1),
		Metrics:     make(map[string]float64),
		Errors:      make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	record := func(contact dynamo.Contact, delta float64) {
		result.Positions = append(result.Positions, b.Position)
		result.Velocities = append(result.Velocities, b.Velocity)
		result.Contacts = append(result.Contacts, contact)
		result.Times = append(result.Times, t)
		result.FrameDeltas = append(result.FrameDeltas, delta)
	}
	record(dynamo.ContactNone, 0)
	for _, m := range s.metrics {
		m.Observe(b, dynamo.ContactNone, t)
	}

	s.log.V(1).Info("run started", "frames", cfg.Frames, "fixedDt", fixedDt, "position", b.Position, "velocity", b.Velocity)

	for i := 1; i <= cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		contact, _, delta, err := s.Frame(b)
		if err != nil {
			s.finish(result)
			return result, err
		}
		t += fixedDt
		result.FramesRun++
		result.Bounces += contact.Count()

		for _, m := range s.metrics {
			m.Observe(b, contact, t)
		}
		for _, obs := range s.observers {
			obs.OnFrame(i, b, contact, t)
		}

		record(contact, delta)

		if cfg.ValidateState {
			if err := validate(b, consts); err != nil {
				simErr := &dynamo.SimulationError{Frame: i, Time: t, Body: *b, Wrapped: err}
				result.Errors = append(result.Errors, simErr)
				s.log.Error(simErr, "stopping run", "frame", i)
				break
			}
		}
	}

	s.finish(result)
	s.log.V(1).Info("run finished", "frames", result.FramesRun, "bounces", result.Bounces)
	return result, nil
}

// validate reports a body the integrator failed to keep finite or inside
// the domain.
func validate(b *dynamo.Body, c dynamo.Constants) error {
	if !b.IsValid() {
		return dynamo.ErrInvalidState
	}
	if !c.Contains(b.Position) {
		return dynamo.ErrOutOfBounds
	}
	return nil
}

func (s *Simulator) finish(result *dynamo.Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
