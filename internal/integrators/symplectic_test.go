package integrators

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ballsim/internal/dynamo"
)

func testConstants() dynamo.Constants {
	return dynamo.Constants{
		Gravity:   9.81,
		Dampening: 0.9,
		SimWidth:  20,
		SimHeight: 20,
		FixedDt:   1.0 / 60.0,
		Substeps:  5,
		MinY:      0.4,
	}
}

func TestSymplecticGravityPullsDown(t *testing.T) {
	integ := NewSymplectic(testConstants())
	b := dynamo.NewBody(mgl64.Vec2{5, 5}, mgl64.Vec2{0, 0})

	contact := integ.Step(b, 1.0/60.0)

	if contact.Any() {
		t.Errorf("expected no contact, got %s", contact)
	}
	if b.Position.Y() >= 5 {
		t.Errorf("expected y to decrease, got %.6f", b.Position.Y())
	}
	if b.Position.X() != 5 {
		t.Errorf("expected x unchanged, got %.6f", b.Position.X())
	}
	if b.Velocity.Y() >= 0 {
		t.Errorf("expected downward velocity, got %.6f", b.Velocity.Y())
	}
}

func TestSymplecticFloorBounce(t *testing.T) {
	c := testConstants()
	integ := NewSymplectic(c)
	b := dynamo.NewBody(mgl64.Vec2{1, 0.1}, mgl64.Vec2{0, -5})

	contact := integ.Step(b, 0)

	if contact != dynamo.ContactFloor {
		t.Fatalf("expected floor contact, got %s", contact)
	}
	if b.Position.Y() != c.MinY {
		t.Errorf("expected y clamped to %.2f, got %.6f", c.MinY, b.Position.Y())
	}
	if b.Velocity.Y() <= 0 {
		t.Fatalf("expected upward velocity after bounce, got %.6f", b.Velocity.Y())
	}

	preClamp := 5 + c.Gravity*c.FixedDt
	want := c.Dampening * preClamp
	if math.Abs(b.Velocity.Y()-want) > 1e-9 {
		t.Errorf("expected vy %.9f, got %.9f", want, b.Velocity.Y())
	}
}

func TestSymplecticWallDamping(t *testing.T) {
	c := testConstants()
	tests := []struct {
		name    string
		pos     mgl64.Vec2
		vel     mgl64.Vec2
		contact dynamo.Contact
		clamp   float64
	}{
		{"left", mgl64.Vec2{0.01, 10}, mgl64.Vec2{-3, 0}, dynamo.ContactLeft, 0},
		{"right", mgl64.Vec2{19.99, 10}, mgl64.Vec2{3, 0}, dynamo.ContactRight, c.SimWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := dynamo.NewBody(tt.pos, tt.vel)
			contact := NewSymplectic(c).Step(b, 0)

			if contact != tt.contact {
				t.Fatalf("expected %s, got %s", tt.contact, contact)
			}
			if b.Position.X() != tt.clamp {
				t.Errorf("expected x clamped to %.2f, got %.6f", tt.clamp, b.Position.X())
			}
			want := c.Dampening * math.Abs(tt.vel.X())
			if math.Abs(b.Velocity.X()) != want {
				t.Errorf("expected |vx| %.6f, got %.6f", want, math.Abs(b.Velocity.X()))
			}
			if math.Signbit(b.Velocity.X()) == math.Signbit(tt.vel.X()) {
				t.Errorf("expected vx to reverse, got %.6f", b.Velocity.X())
			}
		})
	}
}

func TestSymplecticCeiling(t *testing.T) {
	c := testConstants()
	b := dynamo.NewBody(mgl64.Vec2{5, 19.99}, mgl64.Vec2{0, 5})

	contact := NewSymplectic(c).Step(b, 0)

	if contact != dynamo.ContactCeiling {
		t.Fatalf("expected ceiling contact, got %s", contact)
	}
	if b.Position.Y() != c.SimHeight {
		t.Errorf("expected y clamped to %.2f, got %.6f", c.SimHeight, b.Position.Y())
	}
	want := -c.Dampening * (5 - c.Gravity*c.FixedDt)
	if math.Abs(b.Velocity.Y()-want) > 1e-9 {
		t.Errorf("expected vy %.9f, got %.9f", want, b.Velocity.Y())
	}
}

func TestSymplecticCornerReflectsBothAxes(t *testing.T) {
	c := testConstants()
	b := dynamo.NewBody(mgl64.Vec2{0.05, 0.45}, mgl64.Vec2{-10, -10})

	contact := NewSymplectic(c).Step(b, 0)

	if contact != dynamo.ContactLeft|dynamo.ContactFloor {
		t.Fatalf("expected left|floor, got %s", contact)
	}
	if contact.Count() != 2 {
		t.Errorf("expected 2 walls, got %d", contact.Count())
	}
	if b.Position != (mgl64.Vec2{0, c.MinY}) {
		t.Errorf("expected corner position, got %v", b.Position)
	}
	if b.Velocity.X() <= 0 || b.Velocity.Y() <= 0 {
		t.Errorf("expected both axes reflected, got %v", b.Velocity)
	}
}

func TestSymplecticBodyOnWallIsNotReflected(t *testing.T) {
	c := testConstants()
	b := dynamo.NewBody(mgl64.Vec2{0, 10}, mgl64.Vec2{0, 0})

	contact := NewSymplectic(c).Step(b, 0)

	if contact.Horizontal() {
		t.Errorf("expected no horizontal contact, got %s", contact)
	}
	if b.Position.X() != 0 || b.Velocity.X() != 0 {
		t.Errorf("expected x state untouched, got pos %v vel %v", b.Position, b.Velocity)
	}
}

func TestSymplecticIgnoresFrameDelta(t *testing.T) {
	integ := NewSymplectic(testConstants())
	a := dynamo.NewBody(mgl64.Vec2{0.2, 0.2}, mgl64.Vec2{10, 15})
	b := a.Clone()

	for i := 0; i < 120; i++ {
		integ.Step(a, 0.001)
		integ.Step(b, 0.5)
	}

	if *a != *b {
		t.Errorf("frame delta changed the trajectory: %v vs %v", a, b)
	}
}

func TestSymplecticSubstepsPinned(t *testing.T) {
	c := testConstants()
	tests := []struct {
		substeps int
		y        float64
	}{
		// y = y0 - g*h^2*n(n+1)/2 with h = FixedDt/n
		{1, 5 - 9.81/3600.0},
		{5, 5 - 9.81*15/90000.0},
	}

	for _, tt := range tests {
		c.Substeps = tt.substeps
		b := dynamo.NewBody(mgl64.Vec2{5, 5}, mgl64.Vec2{0, 0})
		NewSymplectic(c).Step(b, 0)

		if math.Abs(b.Position.Y()-tt.y) > 1e-12 {
			t.Errorf("substeps=%d: expected y %.12f, got %.12f", tt.substeps, tt.y, b.Position.Y())
		}
		if math.Abs(b.Velocity.Y()+c.Gravity*c.FixedDt) > 1e-12 {
			t.Errorf("substeps=%d: expected vy %.12f, got %.12f", tt.substeps, -c.Gravity*c.FixedDt, b.Velocity.Y())
		}
	}
}

func TestSymplecticBoundsInvariant(t *testing.T) {
	c := testConstants()
	integ := NewSymplectic(c)
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		b := dynamo.NewBody(
			mgl64.Vec2{rng.Float64()*60 - 20, rng.Float64()*60 - 20},
			mgl64.Vec2{rng.Float64()*200 - 100, rng.Float64()*200 - 100},
		)
		for i := 0; i < 300; i++ {
			integ.Step(b, 0)
			if !c.Contains(b.Position) {
				t.Fatalf("run %d step %d: position %v outside domain", run, i, b.Position)
			}
		}
	}
}

func TestSymplecticNaNPropagates(t *testing.T) {
	b := dynamo.NewBody(mgl64.Vec2{5, 5}, mgl64.Vec2{math.NaN(), 0})
	NewSymplectic(testConstants()).Step(b, 0)

	if !math.IsNaN(b.Position.X()) {
		t.Errorf("expected NaN x, got %.6f", b.Position.X())
	}
	if b.IsValid() {
		t.Error("expected body to be invalid")
	}
}

func TestEulerPositionFirst(t *testing.T) {
	c := testConstants()
	b := dynamo.NewBody(mgl64.Vec2{5, 5}, mgl64.Vec2{0, 0})

	NewEuler(c).Step(b, 0)

	// y = y0 - g*h^2*n(n-1)/2
	want := 5 - 9.81*10/90000.0
	if math.Abs(b.Position.Y()-want) > 1e-12 {
		t.Errorf("expected y %.12f, got %.12f", want, b.Position.Y())
	}
}
