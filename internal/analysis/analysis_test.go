package analysis

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/integrators"
	"github.com/san-kum/ballsim/internal/sim"
)

func runPreset(t *testing.T, name string, frames int) (*dynamo.Result, dynamo.Constants) {
	t.Helper()
	cfg := config.GetPreset(name)
	consts, err := cfg.Constants()
	if err != nil {
		t.Fatal(err)
	}
	s := sim.New(integrators.NewSymplectic(consts), cfg.Mapper(), sim.FixedClock(consts.FixedDt))
	runCfg := dynamo.DefaultConfig()
	runCfg.Frames = frames
	result, err := s.Run(context.Background(), cfg.InitialBody(), runCfg)
	if err != nil {
		t.Fatal(err)
	}
	return result, consts
}

func TestAnalyzeBouncesRecoversDampening(t *testing.T) {
	result, consts := runPreset(t, "drop", 600)

	report := AnalyzeBounces(result, consts.MinY)

	if report.FloorBounces < 3 {
		t.Fatalf("expected several floor bounces in 10s, got %d", report.FloorBounces)
	}
	// released at rest from y=5
	if math.Abs(report.Apexes[0]-(5-consts.MinY)) > 1e-9 {
		t.Errorf("expected first apex %v, got %v", 5-consts.MinY, report.Apexes[0])
	}
	for k := 1; k < 3; k++ {
		if report.Apexes[k] >= report.Apexes[k-1] {
			t.Errorf("apex %d (%v) not below apex %d (%v)", k, report.Apexes[k], k-1, report.Apexes[k-1])
		}
	}
	if math.Abs(report.Restitution-consts.Dampening) > 0.05 {
		t.Errorf("expected restitution near %v, got %v", consts.Dampening, report.Restitution)
	}
	if math.IsNaN(report.MeanInterval) || report.MeanInterval <= 0 {
		t.Errorf("expected positive mean interval, got %v", report.MeanInterval)
	}
}

func TestAnalyzeBouncesNoContacts(t *testing.T) {
	r := &dynamo.Result{
		Positions: []mgl64.Vec2{{5, 5}, {5, 4.9}},
		Contacts:  []dynamo.Contact{dynamo.ContactNone, dynamo.ContactNone},
		Times:     []float64{0, 1.0 / 60},
	}
	report := AnalyzeBounces(r, 0.4)
	if report.FloorBounces != 0 || len(report.Apexes) != 0 {
		t.Errorf("expected no bounces, got %+v", report)
	}
	if !math.IsNaN(report.Restitution) || !math.IsNaN(report.MeanInterval) {
		t.Error("expected NaN estimates without bounces")
	}
}

func TestAnalyzeBouncesIgnoresWalls(t *testing.T) {
	r := &dynamo.Result{
		Positions: []mgl64.Vec2{{1, 5}, {0, 5}, {1, 0.4}},
		Contacts:  []dynamo.Contact{dynamo.ContactNone, dynamo.ContactLeft, dynamo.ContactFloor},
		Times:     []float64{0, 1, 2},
	}
	report := AnalyzeBounces(r, 0.4)
	if report.FloorBounces != 1 {
		t.Errorf("expected 1 floor bounce, got %d", report.FloorBounces)
	}
}

func TestPhasePortrait(t *testing.T) {
	positions := []mgl64.Vec2{{0, 1}, {1, 2}, {2, 3}}
	velocities := []mgl64.Vec2{{5, -1}, {6, 0}, {7, 1}}

	p := NewPhasePortrait(positions, velocities, 1)
	if len(p.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(p.Points))
	}
	if p.Points[2] != (mgl64.Vec2{3, 1}) {
		t.Errorf("expected (y, vy) pairs, got %v", p.Points[2])
	}

	if NewPhasePortrait(positions, velocities, 2) != nil {
		t.Error("expected nil for invalid axis")
	}

	out := p.ASCII(20, 10)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(lines))
	}
	if got := strings.Count(out, "•"); got != 3 {
		t.Errorf("expected 3 plotted points, got %d", got)
	}
	if !strings.Contains(out, "─") {
		t.Error("expected zero-velocity axis")
	}
}

func TestPhasePortraitEmpty(t *testing.T) {
	var p *PhasePortrait
	if p.ASCII(10, 10) != "" {
		t.Error("expected empty output for nil portrait")
	}
}
