package integrators

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ballsim/internal/dynamo"
)

// reflectBounds clamps r into the domain and reflects v with damping, at most
// once per axis. Comparisons are strict so a body resting exactly on a wall
// is left alone.
func reflectBounds(r, v *mgl64.Vec2, c dynamo.Constants) dynamo.Contact {
	contact := dynamo.ContactNone

	if r[0] < 0 {
		v[0] = -v[0] * c.Dampening
		r[0] = 0
		contact |= dynamo.ContactLeft
	} else if r[0] > c.SimWidth {
		v[0] = -v[0] * c.Dampening
		r[0] = c.SimWidth
		contact |= dynamo.ContactRight
	}

	if r[1] < c.MinY {
		v[1] = -v[1] * c.Dampening
		r[1] = c.MinY
		contact |= dynamo.ContactFloor
	} else if r[1] > c.SimHeight {
		v[1] = -v[1] * c.Dampening
		r[1] = c.SimHeight
		contact |= dynamo.ContactCeiling
	}

	return contact
}

var up = mgl64.Vec2{0, 1}
