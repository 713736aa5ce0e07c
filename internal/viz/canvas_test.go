package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)

	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if !c.IsSet(0, 0) || !c.IsSet(3, 3) {
		t.Error("expected dots set")
	}
	if c.IsSet(1, 0) {
		t.Error("unexpected dot set")
	}
	if got := c.String(); got != string([]rune{0x2801, 0x2880}) {
		t.Errorf("unexpected render %q", got)
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillEllipse(3, 3, 2, 2)
	c.Clear()

	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Errorf("expected blank canvas, got %q", c.String())
	}
}

func TestCanvasFillEllipse(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillEllipse(10, 10, 3, 2)

	for _, p := range [][2]int{{10, 10}, {13, 10}, {7, 10}, {10, 12}, {10, 8}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected (%d, %d) inside ellipse", p[0], p[1])
		}
	}
	for _, p := range [][2]int{{14, 10}, {10, 13}, {13, 12}} {
		if c.IsSet(p[0], p[1]) {
			t.Errorf("expected (%d, %d) outside ellipse", p[0], p[1])
		}
	}
}

func TestCanvasFrame(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Frame()

	for _, p := range [][2]int{{0, 0}, {5, 0}, {0, 7}, {5, 7}, {2, 0}, {0, 4}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected border dot at (%d, %d)", p[0], p[1])
		}
	}
	if c.IsSet(2, 3) {
		t.Error("unexpected interior dot")
	}
}
