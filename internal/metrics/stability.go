package metrics

import "github.com/san-kum/ballsim/internal/dynamo"

// Containment is the fraction of observed frames with the body inside the
// domain. Anything below 1 means the integrator let the ball escape.
type Containment struct {
	name       string
	bounds     dynamo.Constants
	violations int
	samples    int
}

func NewContainment(bounds dynamo.Constants) *Containment {
	return &Containment{
		name:   "containment",
		bounds: bounds,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(b *dynamo.Body, contact dynamo.Contact, t float64) {
	c.samples++
	if !c.bounds.Contains(b.Position) {
		c.violations++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Violations() int { return c.violations }

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
