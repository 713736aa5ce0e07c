package integrators

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballsim/internal/dynamo"
)

func mechanicalEnergy(b *dynamo.Body, g float64) float64 {
	return 0.5*b.Velocity.Dot(b.Velocity) + g*b.Position.Y()
}

var _ = Describe("Symplectic", func() {
	var c dynamo.Constants

	BeforeEach(func() {
		c = testConstants()
	})

	Context("in free flight", func() {
		It("loses exactly g^2*h^2/2 per sub-step", func() {
			b := dynamo.NewBody(mgl64.Vec2{10, 10}, mgl64.Vec2{1, 2})
			e0 := mechanicalEnergy(b, c.Gravity)

			NewSymplectic(c).Step(b, 0)

			h := c.SubDt()
			loss := float64(c.Substeps) * 0.5 * c.Gravity * c.Gravity * h * h
			Expect(mechanicalEnergy(b, c.Gravity)).To(BeNumerically("~", e0-loss, 1e-9))
		})

		It("is not sub-step independent", func() {
			one, five := c, c
			one.Substeps = 1
			five.Substeps = 5

			a := dynamo.NewBody(mgl64.Vec2{5, 5}, mgl64.Vec2{0, 0})
			b := a.Clone()
			NewSymplectic(one).Step(a, 0)
			NewSymplectic(five).Step(b, 0)

			Expect(a.Position.Y()).NotTo(Equal(b.Position.Y()))
			Expect(a.Velocity.Y()).To(BeNumerically("~", b.Velocity.Y(), 1e-12))
		})
	})

	Context("bouncing on the floor", func() {
		DescribeTable("never exceeds its starting energy",
			func(substeps int) {
				c.Substeps = substeps
				integ := NewSymplectic(c)
				b := dynamo.NewBody(mgl64.Vec2{5, 5}, mgl64.Vec2{0, 0})
				e0 := mechanicalEnergy(b, c.Gravity)

				bounces := 0
				for i := 0; i < 2000; i++ {
					contact := integ.Step(b, 0)
					if contact.Vertical() {
						bounces++
					}
					Expect(c.Contains(b.Position)).To(BeTrue())
					Expect(mechanicalEnergy(b, c.Gravity)).To(BeNumerically("<=", e0+1e-6))
					Expect(b.Position.X()).To(Equal(5.0))
				}

				Expect(bounces).To(BeNumerically(">", 3))
				Expect(mechanicalEnergy(b, c.Gravity)).To(BeNumerically("<", e0/2))
			},
			Entry("one sub-step", 1),
			Entry("five sub-steps", 5),
			Entry("twenty sub-steps", 20),
		)

		It("retains the damping fraction of the impact speed", func() {
			b := dynamo.NewBody(mgl64.Vec2{3, 0.5}, mgl64.Vec2{0, -12})

			contact := NewSymplectic(c).Step(b, 0)

			Expect(contact).To(Equal(dynamo.ContactFloor))
			Expect(b.Position.Y()).To(Equal(c.MinY))
			Expect(b.Velocity.Y()).To(BeNumerically("~", c.Dampening*(12+c.Gravity*c.FixedDt), 1e-9))
		})
	})
})

var _ = Describe("Euler", func() {
	It("gains energy in free flight where Symplectic loses it", func() {
		c := testConstants()
		a := dynamo.NewBody(mgl64.Vec2{10, 10}, mgl64.Vec2{0, 0})
		b := a.Clone()
		e0 := mechanicalEnergy(a, c.Gravity)

		NewEuler(c).Step(a, 0)
		NewSymplectic(c).Step(b, 0)

		Expect(mechanicalEnergy(a, c.Gravity)).To(BeNumerically(">", e0))
		Expect(mechanicalEnergy(b, c.Gravity)).To(BeNumerically("<", e0))
	})
})
