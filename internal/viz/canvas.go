package viz

import (
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBase = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells addressed in dot coordinates. A canvas
// of Cols x Rows cells has (2*Cols) x (4*Rows) dots.
type Canvas struct {
	Cols, Rows int
	grid       [][]rune
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{Cols: cols, Rows: rows, grid: make([][]rune, rows)}
	for i := range c.grid {
		c.grid[i] = make([]rune, cols)
	}
	c.Clear()
	return c
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.Cols*2 && y < c.Rows*4
}

// Set lights the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if !c.inside(x, y) {
		return
	}
	c.grid[y/4][x/2] |= pixelMap[y%4][x%2]
}

func (c *Canvas) IsSet(x, y int) bool {
	if !c.inside(x, y) {
		return false
	}
	return c.grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = brailleBase
		}
	}
}

// FillEllipse lights every dot within the axis-aligned ellipse centred on
// (cx, cy). A zero radius on both axes lights the centre dot only.
func (c *Canvas) FillEllipse(cx, cy, rx, ry int) {
	if rx == 0 && ry == 0 {
		c.Set(cx, cy)
		return
	}
	fx, fy := float64(max(rx, 1)), float64(max(ry, 1))
	for y := cy - ry; y <= cy+ry; y++ {
		for x := cx - rx; x <= cx+rx; x++ {
			nx, ny := float64(x-cx)/fx, float64(y-cy)/fy
			if nx*nx+ny*ny <= 1 {
				c.Set(x, y)
			}
		}
	}
}

// Frame outlines the outermost dots; the domain walls.
func (c *Canvas) Frame() {
	w, h := c.Cols*2, c.Rows*4
	for x := 0; x < w; x++ {
		c.Set(x, 0)
		c.Set(x, h-1)
	}
	for y := 0; y < h; y++ {
		c.Set(0, y)
		c.Set(w-1, y)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.grid {
		b.WriteString(string(row))
		if i < len(c.grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
