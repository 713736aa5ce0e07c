package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Viewport fits a render-space window onto a terminal grid of Cols x Rows
// cells. Each cell holds 2x4 braille dots, so the dot grid is
// (2*Cols) x (4*Rows).
type Viewport struct {
	Width  float64
	Height float64
	Cols   int
	Rows   int
}

func NewViewport(width, height float64, cols, rows int) Viewport {
	return Viewport{Width: width, Height: height, Cols: cols, Rows: rows}
}

func (v Viewport) DotsX() int { return v.Cols * 2 }
func (v Viewport) DotsY() int { return v.Rows * 4 }

// Dot maps a render-space point to a dot coordinate. Points on the far edge
// land on the last dot rather than one past it.
func (v Viewport) Dot(p mgl64.Vec2) (int, int) {
	x := int(math.Floor(p.X() / v.Width * float64(v.DotsX())))
	y := int(math.Floor(p.Y() / v.Height * float64(v.DotsY())))
	return clampInt(x, 0, v.DotsX()-1), clampInt(y, 0, v.DotsY()-1)
}

// DotRadius converts a pixel length to dots along x and y. Terminal cells are
// not square, so the two differ.
func (v Viewport) DotRadius(px float64) (int, int) {
	rx := int(math.Round(px / v.Width * float64(v.DotsX())))
	ry := int(math.Round(px / v.Height * float64(v.DotsY())))
	return max(rx, 0), max(ry, 0)
}

// Cell maps a render-space point to a character cell.
func (v Viewport) Cell(p mgl64.Vec2) (int, int) {
	x, y := v.Dot(p)
	return x / 2, y / 4
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
