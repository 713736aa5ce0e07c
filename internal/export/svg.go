package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/render"
)

// Style controls the colours and sizes of an exported trajectory.
type Style struct {
	Background string
	Stroke     string
	Ball       string
	BallRadius float64 // simulation units
}

func DefaultStyle() Style {
	return Style{
		Background: "#1e1e1e",
		Stroke:     "#5f87af",
		Ball:       "#eae0d5",
		BallRadius: 0.2,
	}
}

// TrajectorySVG draws a simulation-space trajectory in render space: the path,
// a marker at every contact and the ball at its final position. contacts may
// be nil or shorter than positions.
func TrajectorySVG(positions []mgl64.Vec2, contacts []dynamo.Contact, mapper render.Mapper, width, height float64, style Style) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, style.Background))

	if len(positions) == 0 {
		sb.WriteString("</svg>")
		return sb.String()
	}

	if len(positions) > 1 {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, style.Stroke))
		for i, p := range positions {
			r := mapper.ToRender(p)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", r.X(), r.Y()))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", r.X(), r.Y()))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", style.Stroke))
	for i, c := range contacts {
		if i >= len(positions) || !c.Any() {
			continue
		}
		r := mapper.ToRender(positions[i])
		sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3.0\"/>\n", r.X(), r.Y()))
	}
	sb.WriteString("</g>\n")

	last := mapper.ToRender(positions[len(positions)-1])
	sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
		last.X(), last.Y(), mapper.Length(style.BallRadius), style.Ball))

	sb.WriteString("</svg>")
	return sb.String()
}

func WriteTrajectorySVG(w io.Writer, positions []mgl64.Vec2, contacts []dynamo.Contact, mapper render.Mapper, width, height float64, style Style) error {
	_, err := io.WriteString(w, TrajectorySVG(positions, contacts, mapper, width, height, style))
	return err
}
