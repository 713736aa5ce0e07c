package metrics

import (
	"math"

	"github.com/san-kum/ballsim/internal/dynamo"
)

// MechanicalEnergy is kinetic plus potential energy per unit mass, with the
// potential measured from y = 0.
func MechanicalEnergy(b *dynamo.Body, gravity float64) float64 {
	return 0.5*b.Velocity.Dot(b.Velocity) + gravity*b.Position.Y()
}

// Energy reports the most recently observed mechanical energy.
type Energy struct {
	name    string
	gravity float64
	current float64
	samples int
}

func NewEnergy(gravity float64) *Energy {
	return &Energy{
		name:    "energy",
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(b *dynamo.Body, contact dynamo.Contact, t float64) {
	e.current = MechanicalEnergy(b, e.gravity)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.current
}

func (e *Energy) Reset() {
	e.current = 0
	e.samples = 0
}

// Dissipation is the fraction of the initial energy lost so far. Wall
// damping makes it grow; it stays near zero only with Dampening = 1.
type Dissipation struct {
	name    string
	gravity float64
	initial float64
	current float64
	maxGain float64
	samples int
}

func NewDissipation(gravity float64) *Dissipation {
	return &Dissipation{
		name:    "dissipation",
		gravity: gravity,
	}
}

func (d *Dissipation) Name() string { return d.name }

func (d *Dissipation) Observe(b *dynamo.Body, contact dynamo.Contact, t float64) {
	energy := MechanicalEnergy(b, d.gravity)
	if d.samples == 0 {
		d.initial = energy
	}
	d.current = energy
	d.samples++

	if d.initial != 0 {
		d.maxGain = math.Max(d.maxGain, (energy-d.initial)/math.Abs(d.initial))
	}
}

func (d *Dissipation) Value() float64 {
	if d.samples == 0 || d.initial == 0 {
		return 0
	}
	return (d.initial - d.current) / math.Abs(d.initial)
}

// MaxGain is the largest relative rise above the initial energy observed.
func (d *Dissipation) MaxGain() float64 {
	return d.maxGain
}

func (d *Dissipation) Reset() {
	d.initial = 0
	d.current = 0
	d.maxGain = 0
	d.samples = 0
}
