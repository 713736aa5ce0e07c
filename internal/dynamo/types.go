package dynamo

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is the ball's kinematic state in simulation units.
// Simulation space has its origin at the bottom-left with y pointing up.
type Body struct {
	Position mgl64.Vec2
	Velocity mgl64.Vec2
}

func NewBody(pos, vel mgl64.Vec2) *Body {
	return &Body{Position: pos, Velocity: vel}
}

func (b *Body) Clone() *Body {
	c := *b
	return &c
}

func (b *Body) IsValid() bool {
	for _, v := range [...]float64{b.Position[0], b.Position[1], b.Velocity[0], b.Velocity[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Constants are the process-wide simulation parameters. They are built once
// from configuration and never change during a run.
type Constants struct {
	Gravity   float64
	Dampening float64
	SimWidth  float64
	SimHeight float64
	FixedDt   float64
	Substeps  int
	MinY      float64
}

// SubDt is the length of one inner integration step.
func (c Constants) SubDt() float64 {
	return c.FixedDt / float64(c.Substeps)
}

// Contains reports whether p lies inside the collision domain, bounds included.
func (c Constants) Contains(p mgl64.Vec2) bool {
	return p[0] >= 0 && p[0] <= c.SimWidth && p[1] >= c.MinY && p[1] <= c.SimHeight
}

// Contact records which walls were hit during a step.
type Contact uint8

const (
	ContactLeft Contact = 1 << iota
	ContactRight
	ContactFloor
	ContactCeiling

	ContactNone Contact = 0
)

func (c Contact) Any() bool        { return c != ContactNone }
func (c Contact) Horizontal() bool { return c&(ContactLeft|ContactRight) != 0 }
func (c Contact) Vertical() bool   { return c&(ContactFloor|ContactCeiling) != 0 }

// Count is the number of walls hit, at most one per axis.
func (c Contact) Count() int {
	n := 0
	if c.Horizontal() {
		n++
	}
	if c.Vertical() {
		n++
	}
	return n
}

func (c Contact) String() string {
	if c == ContactNone {
		return "none"
	}
	names := make([]string, 0, 2)
	for _, w := range []struct {
		bit  Contact
		name string
	}{
		{ContactLeft, "left"},
		{ContactRight, "right"},
		{ContactFloor, "floor"},
		{ContactCeiling, "ceiling"},
	} {
		if c&w.bit != 0 {
			names = append(names, w.name)
		}
	}
	return strings.Join(names, "|")
}

// Integrator advances a body by one fixed simulation timestep. frameDt is the
// host-measured frame time; implementations accept it but advance by
// Constants().FixedDt regardless.
type Integrator interface {
	Step(b *Body, frameDt float64) Contact
	Constants() Constants
}

type Metric interface {
	Name() string
	Observe(b *Body, contact Contact, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(frame int, b *Body, contact Contact, t float64)
}

type Config struct {
	Frames        int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Frames:        600,
		ValidateState: true,
	}
}

// Result holds one sample per frame, with the initial state at index 0.
type Result struct {
	Positions   []mgl64.Vec2
	Velocities  []mgl64.Vec2
	Contacts    []Contact
	Times       []float64
	FrameDeltas []float64
	Metrics     map[string]float64
	Bounces     int
	FramesRun   int
	Errors      []error
}

// Heights returns the y position series, the one most plots care about.
func (r *Result) Heights() []float64 {
	ys := make([]float64, len(r.Positions))
	for i, p := range r.Positions {
		ys[i] = p[1]
	}
	return ys
}

func (r *Result) Final() *Body {
	if len(r.Positions) == 0 {
		return nil
	}
	n := len(r.Positions) - 1
	return NewBody(r.Positions[n], r.Velocities[n])
}
