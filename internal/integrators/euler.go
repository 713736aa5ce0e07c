package integrators

import "github.com/san-kum/ballsim/internal/dynamo"

// Euler is explicit (position-first) Euler with the same sub-stepping and
// wall handling as Symplectic. It gains energy in free flight and is kept
// for comparison runs.
type Euler struct {
	c dynamo.Constants
}

func NewEuler(c dynamo.Constants) *Euler {
	return &Euler{c: c}
}

func (e *Euler) Constants() dynamo.Constants { return e.c }

func (e *Euler) Step(b *dynamo.Body, _ float64) dynamo.Contact {
	sdt := e.c.SubDt()
	v := b.Velocity
	r := b.Position

	for i := 0; i < e.c.Substeps; i++ {
		r = r.Add(v.Mul(sdt))
		v = v.Add(up.Mul(-e.c.Gravity * sdt))
	}

	contact := reflectBounds(&r, &v, e.c)

	b.Velocity = v
	b.Position = r
	return contact
}
