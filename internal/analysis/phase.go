package analysis

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// PhasePortrait holds (position, velocity) pairs along one axis.
type PhasePortrait struct {
	Axis   int
	Points []mgl64.Vec2
}

// NewPhasePortrait pairs positions[i][axis] with velocities[i][axis]. axis is
// 0 for x and 1 for y.
func NewPhasePortrait(positions, velocities []mgl64.Vec2, axis int) *PhasePortrait {
	if axis < 0 || axis > 1 {
		return nil
	}
	n := min(len(positions), len(velocities))
	portrait := &PhasePortrait{
		Axis:   axis,
		Points: make([]mgl64.Vec2, n),
	}
	for i := 0; i < n; i++ {
		portrait.Points[i] = mgl64.Vec2{positions[i][axis], velocities[i][axis]}
	}
	return portrait
}

// ASCII draws the portrait on a width x height character grid, with the zero
// velocity axis marked when it is in view.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0][0], p.Points[0][0]
	minY, maxY := p.Points[0][1], p.Points[0][1]
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt[0]), max(maxX, pt[0])
		minY, maxY = min(minY, pt[1]), max(maxY, pt[1])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			canvas[row][col] = '─'
		}
	}

	for _, pt := range p.Points {
		col := int((pt[0] - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt[1]-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
