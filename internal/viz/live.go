package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/metrics"
	"github.com/san-kum/ballsim/internal/render"
)

const (
	defaultCols     = 64
	defaultRows     = 18
	statsWidth      = 46
	historyCapacity = 600
	trailLength     = 40
)

type TickMsg time.Time

func tick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

type dot struct{ x, y int }

// Model is the render-loop host for the live view. Every tick it steps the
// integrator once with the measured tick interval and draws the result.
type Model struct {
	integ    dynamo.Integrator
	consts   dynamo.Constants
	body     *dynamo.Body
	initial  *dynamo.Body
	window   config.WindowConfig
	mapper   render.Mapper
	viewport render.Viewport
	canvas   *Canvas
	fps      int

	frame    int
	t        float64
	lastTick time.Time
	frameDt  float64
	running  bool
	showHelp bool

	trail   []dot
	energy  []float64
	bounces *metrics.Bounces

	themes   []Theme
	themeIdx int
	styles   styles
	log      logr.Logger
}

func NewModel(integ dynamo.Integrator, initial *dynamo.Body, window config.WindowConfig, fps int, log logr.Logger) Model {
	if fps <= 0 {
		fps = 60
	}
	themes := DefaultThemes(window.BallColor, window.Background)
	m := Model{
		integ:   integ,
		consts:  integ.Constants(),
		body:    initial.Clone(),
		initial: initial.Clone(),
		window:  window,
		mapper:  render.NewMapper(window.Height(), window.Scale()),
		fps:     fps,
		running: true,
		trail:   make([]dot, 0, trailLength),
		energy:  make([]float64, 0, historyCapacity),
		bounces: metrics.NewBounces(),
		themes:  themes,
		styles:  newStyles(themes[0]),
		log:     log,
	}
	m.resize(defaultCols, defaultRows)
	m.recordEnergy()
	return m
}

func (m *Model) resize(cols, rows int) {
	m.viewport = render.NewViewport(m.window.Width, m.window.Height(), cols, rows)
	m.canvas = NewCanvas(cols, rows)
}

func (m Model) Init() tea.Cmd {
	return tick(m.fps)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "n", ".":
			if !m.running {
				m.step()
			}
		case "t":
			m.themeIdx = (m.themeIdx + 1) % len(m.themes)
			m.styles = newStyles(m.themes[m.themeIdx])
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		cols := max(msg.Width-statsWidth-4, 20)
		rows := max(msg.Height-6, 8)
		// keep the domain's aspect: a cell is roughly twice as tall as wide
		if want := int(float64(cols) / m.window.AspectRatio / 2); want < rows {
			rows = max(want, 8)
		}
		m.resize(cols, rows)
	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			m.frameDt = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now
		if m.running {
			m.step()
		}
		return m, tick(m.fps)
	}
	return m, nil
}

// step advances the simulation by one frame.
func (m *Model) step() {
	contact := m.integ.Step(m.body, m.frameDt)
	m.frame++
	m.t += m.consts.FixedDt
	m.bounces.Observe(m.body, contact, m.t)
	if contact.Any() {
		m.log.V(1).Info("bounce", "frame", m.frame, "walls", contact.String(), "velocity", m.body.Velocity)
	}
	m.recordEnergy()

	x, y := m.viewport.Dot(m.mapper.ToRender(m.body.Position))
	m.trail = append(m.trail, dot{x, y})
	if len(m.trail) > trailLength {
		m.trail = m.trail[1:]
	}
}

func (m *Model) recordEnergy() {
	m.energy = append(m.energy, metrics.MechanicalEnergy(m.body, m.consts.Gravity))
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

// reset restores the initial state.
func (m *Model) reset() {
	m.body = m.initial.Clone()
	m.frame = 0
	m.t = 0
	m.trail = m.trail[:0]
	m.energy = m.energy[:0]
	m.bounces.Reset()
	m.recordEnergy()
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.canvas.Frame()
	for i, p := range m.trail {
		if i%2 == 0 {
			m.canvas.Set(p.x, p.y)
		}
	}
	cx, cy := m.viewport.Dot(m.mapper.ToRender(m.body.Position))
	rx, ry := m.viewport.DotRadius(m.mapper.Length(m.window.BallRadius))
	m.canvas.FillEllipse(cx, cy, rx, ry)
}

func (m Model) View() string {
	m.draw()
	st := m.styles

	status := st.status.Render("RUNNING")
	if !m.running {
		status = st.paused.Render("PAUSED")
	}

	var stats strings.Builder
	row := func(label, value string) {
		stats.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%.2f s", m.t))
	row("frame", fmt.Sprintf("%d", m.frame))
	row("frame dt", fmt.Sprintf("%.1f ms (sim %.1f ms)", m.frameDt*1000, m.consts.FixedDt*1000))
	row("position", fmt.Sprintf("(%6.2f, %6.2f)", m.body.Position.X(), m.body.Position.Y()))
	row("velocity", fmt.Sprintf("(%6.2f, %6.2f)", m.body.Velocity.X(), m.body.Velocity.Y()))
	row("energy", fmt.Sprintf("%.3f", m.energy[len(m.energy)-1]))
	row("bounces", fmt.Sprintf("%.0f (floor %d)", m.bounces.Value(), m.bounces.Floor()))
	row("substeps", fmt.Sprintf("%d", m.consts.Substeps))
	stats.WriteString("\n" + st.sparkline(m.energy, statsWidth-6) + "\n")
	if len(m.energy) > 1 {
		graph := asciigraph.Plot(m.energy,
			asciigraph.Height(6),
			asciigraph.Width(statsWidth-24),
			asciigraph.Caption("energy"),
		)
		stats.WriteString(st.graph.Render(graph) + "\n")
	}

	var s strings.Builder
	s.WriteString(st.header.Render(m.window.Title) + "  " + status + "\n\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		st.canvas.Render(m.canvas.String()),
		st.stats.Render(stats.String()),
	))
	s.WriteString("\n")

	if m.showHelp {
		s.WriteString(st.help.Render("space pause  n step  r reset  t theme  ? help  q quit"))
	} else {
		s.WriteString(st.help.Render("? help"))
	}
	return s.String()
}

// Body returns the body being simulated.
func (m Model) Body() *dynamo.Body { return m.body }
func (m Model) Frame() int         { return m.frame }
func (m Model) Running() bool      { return m.running }
