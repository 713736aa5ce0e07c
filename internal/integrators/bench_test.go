package integrators

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ballsim/internal/dynamo"
)

func BenchmarkSymplectic(b *testing.B) {
	integ := NewSymplectic(testConstants())
	body := dynamo.NewBody(mgl64.Vec2{0.2, 0.2}, mgl64.Vec2{10, 15})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(body, 1.0/60.0)
	}
}

func BenchmarkEuler(b *testing.B) {
	integ := NewEuler(testConstants())
	body := dynamo.NewBody(mgl64.Vec2{0.2, 0.2}, mgl64.Vec2{10, 15})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(body, 1.0/60.0)
	}
}
