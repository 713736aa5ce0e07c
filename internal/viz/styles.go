package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette of the live view. The ball and background colours
// come from the window config.
type Theme struct {
	Name       string
	Ball       lipgloss.Color
	Background lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Text       lipgloss.Color
}

func DefaultThemes(ball, background string) []Theme {
	return []Theme{
		{
			Name:       "cannonball",
			Ball:       lipgloss.Color(ball),
			Background: lipgloss.Color(background),
			Accent:     lipgloss.Color("#00ccff"),
			Muted:      lipgloss.Color("#888899"),
			Text:       lipgloss.Color("#ffffff"),
		},
		{
			Name:       "retro",
			Ball:       lipgloss.Color("#00ff00"),
			Background: lipgloss.Color("#001100"),
			Accent:     lipgloss.Color("#88ff88"),
			Muted:      lipgloss.Color("#005500"),
			Text:       lipgloss.Color("#00ff00"),
		},
	}
}

type styles struct {
	canvas  lipgloss.Style
	stats   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	status  lipgloss.Style
	paused  lipgloss.Style
	help    lipgloss.Style
	graph   lipgloss.Style
	sparkHi lipgloss.Style
	sparkLo lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().
			Foreground(t.Ball).
			Background(t.Background),
		stats: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(statsWidth-2),
		header:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		status:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true),
		paused:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaa00")).Bold(true),
		help:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		graph:   lipgloss.NewStyle().Foreground(t.Accent),
		sparkHi: lipgloss.NewStyle().Foreground(t.Accent),
		sparkLo: lipgloss.NewStyle().Foreground(t.Muted),
	}
}

// sparkline renders the tail of values as block characters, scaled between
// their min and max.
func (s styles) sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		c := string(chars[int(norm*float64(len(chars)-1))])
		if norm > 0.5 {
			b.WriteString(s.sparkHi.Render(c))
		} else {
			b.WriteString(s.sparkLo.Render(c))
		}
	}
	return b.String()
}
