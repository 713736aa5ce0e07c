package integrators

import "github.com/san-kum/ballsim/internal/dynamo"

// Symplectic is semi-implicit Euler with a fixed number of sub-steps per
// frame. Velocity is updated before position inside every sub-step.
type Symplectic struct {
	c dynamo.Constants
}

func NewSymplectic(c dynamo.Constants) *Symplectic {
	return &Symplectic{c: c}
}

func (s *Symplectic) Constants() dynamo.Constants { return s.c }

// Step advances b by FixedDt. The host frame time is ignored so the motion
// does not depend on display frame rate.
func (s *Symplectic) Step(b *dynamo.Body, _ float64) dynamo.Contact {
	sdt := s.c.SubDt()
	v := b.Velocity
	r := b.Position

	for i := 0; i < s.c.Substeps; i++ {
		v = v.Add(up.Mul(-s.c.Gravity * sdt))
		r = r.Add(v.Mul(sdt))
	}

	contact := reflectBounds(&r, &v, s.c)

	b.Velocity = v
	b.Position = r
	return contact
}
