// Package render converts simulation-space positions into render-space
// coordinates. Simulation space is y-up with the origin bottom-left; render
// space is pixels, y-down with the origin top-left.
package render

import "github.com/go-gl/mathgl/mgl64"

// ToRenderSpace scales pos into pixels and flips the y axis.
func ToRenderSpace(pos mgl64.Vec2, renderHeight, scale float64) mgl64.Vec2 {
	return mgl64.Vec2{pos.X() * scale, renderHeight - pos.Y()*scale}
}

// FromRenderSpace is the inverse of ToRenderSpace.
func FromRenderSpace(p mgl64.Vec2, renderHeight, scale float64) mgl64.Vec2 {
	return mgl64.Vec2{p.X() / scale, (renderHeight - p.Y()) / scale}
}

// Mapper binds the render height and scale of one window.
type Mapper struct {
	Height float64
	Scale  float64
}

func NewMapper(renderHeight, scale float64) Mapper {
	return Mapper{Height: renderHeight, Scale: scale}
}

func (m Mapper) ToRender(pos mgl64.Vec2) mgl64.Vec2 {
	return ToRenderSpace(pos, m.Height, m.Scale)
}

func (m Mapper) ToSim(p mgl64.Vec2) mgl64.Vec2 {
	return FromRenderSpace(p, m.Height, m.Scale)
}

// Length converts a simulation-space distance to pixels.
func (m Mapper) Length(d float64) float64 {
	return d * m.Scale
}
