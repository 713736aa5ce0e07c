package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/integrators"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	c, err := cfg.Constants()
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(integrators.NewSymplectic(c), cfg.InitialBody(), cfg.Window, 60, logr.Discard())
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTickSteps(t *testing.T) {
	m := newTestModel(t)
	start := m.Body().Position
	now := time.Now()

	m, cmd := update(t, m, TickMsg(now))
	if cmd == nil {
		t.Error("expected next tick command")
	}
	m, _ = update(t, m, TickMsg(now.Add(40*time.Millisecond)))

	if m.Frame() != 2 {
		t.Errorf("expected 2 frames, got %d", m.Frame())
	}
	if m.Body().Position == start {
		t.Error("expected ball to move")
	}
	if m.frameDt != 0.04 {
		t.Errorf("expected measured frame dt 0.04, got %f", m.frameDt)
	}
}

func TestModelPauseAndSingleStep(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, key(" "))
	if m.Running() {
		t.Fatal("expected paused")
	}

	m, _ = update(t, m, TickMsg(time.Now()))
	if m.Frame() != 0 {
		t.Errorf("expected no step while paused, got %d frames", m.Frame())
	}

	m, _ = update(t, m, key("n"))
	if m.Frame() != 1 {
		t.Errorf("expected single step, got %d frames", m.Frame())
	}
}

func TestModelReset(t *testing.T) {
	m := newTestModel(t)
	initial := *m.Body()
	now := time.Now()
	for i := 0; i < 30; i++ {
		m, _ = update(t, m, TickMsg(now.Add(time.Duration(i)*16*time.Millisecond)))
	}

	m, _ = update(t, m, key("r"))

	if m.Frame() != 0 {
		t.Errorf("expected frame 0 after reset, got %d", m.Frame())
	}
	if *m.Body() != initial {
		t.Errorf("expected initial body after reset, got %v", m.Body())
	}
	if len(m.energy) != 1 {
		t.Errorf("expected energy history reset, got %d entries", len(m.energy))
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 50})

	if m.canvas.Cols != 90 {
		t.Errorf("expected 90 columns, got %d", m.canvas.Cols)
	}
	if m.canvas.Rows != 25 {
		t.Errorf("expected 25 rows, got %d", m.canvas.Rows)
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, TickMsg(time.Now()))

	view := m.View()
	for _, want := range []string{"Cannonball Simulation!", "RUNNING", "position", "bounces"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelBallDrawnAtMappedPosition(t *testing.T) {
	m := newTestModel(t)
	m.draw()

	cx, cy := m.viewport.Dot(m.mapper.ToRender(m.Body().Position))
	if !m.canvas.IsSet(cx, cy) {
		t.Errorf("expected dot at ball centre (%d, %d)", cx, cy)
	}
}
