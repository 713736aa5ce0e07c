package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/render"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
	trailLength = 40
)

type cell struct{ x, y int }

// LiveRenderer is a plain ANSI rendering backend for headless runs. It takes
// render-space positions and redraws a character grid at most frameRate
// times per second.
type LiveRenderer struct {
	out       io.Writer
	title     string
	frameRate int
	viewport  render.Viewport
	lastFrame time.Time
	lastCall  time.Time
	pace      time.Duration
	now       func() time.Time
	sleep     func(time.Duration)
	canvas    [][]rune
	trail     []cell
	frames    int
}

func NewLiveRenderer(out io.Writer, title string, renderWidth, renderHeight float64, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:       out,
		title:     title,
		frameRate: frameRate,
		viewport:  render.NewViewport(renderWidth, renderHeight, width, height),
		now:       time.Now,
		sleep:     time.Sleep,
		canvas:    canvas,
		trail:     make([]cell, 0, trailLength),
	}
}

// SetPace makes Render block until at least d has passed since the previous
// call, so a headless run plays back at wall-clock speed.
func (r *LiveRenderer) SetPace(d time.Duration) { r.pace = d }

func (r *LiveRenderer) Render(pos mgl64.Vec2) error {
	r.frames++
	if r.pace > 0 {
		if !r.lastCall.IsZero() {
			if wait := r.pace - r.now().Sub(r.lastCall); wait > 0 {
				r.sleep(wait)
			}
		}
		r.lastCall = r.now()
	}

	x, y := r.viewport.Cell(pos)
	r.trail = append(r.trail, cell{x, y})
	if len(r.trail) > trailLength {
		r.trail = r.trail[1:]
	}

	if r.frameRate > 0 {
		now := r.now()
		if !r.lastFrame.IsZero() && now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return nil
		}
		r.lastFrame = now
	}

	r.clear()
	r.drawWalls()
	for i, c := range r.trail {
		if i < len(r.trail)/2 {
			r.set(c.x, c.y, '.')
		} else {
			r.set(c.x, c.y, 'o')
		}
	}
	r.set(x, y, 'O')

	return r.flush(pos)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) drawWalls() {
	for x := 0; x < width; x++ {
		r.set(x, height-1, '_')
	}
}

func (r *LiveRenderer) flush(pos mgl64.Vec2) error {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  frame=%d\n", r.title, r.frames))
	b.WriteString("  +" + strings.Repeat("-", width) + "+\n")

	for _, row := range r.canvas {
		b.WriteString("  |")
		b.WriteString(string(row))
		b.WriteString("|\n")
	}

	b.WriteString("  +" + strings.Repeat("-", width) + "+\n")
	b.WriteString(fmt.Sprintf("  px=(%.1f, %.1f)\n", pos.X(), pos.Y()))

	_, err := io.WriteString(r.out, b.String())
	return err
}

// Frames is the number of positions received, drawn or not.
func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) Start() error {
	_, err := io.WriteString(r.out, hideCursor)
	return err
}

func (r *LiveRenderer) Stop() error {
	_, err := io.WriteString(r.out, showCursor)
	return err
}
