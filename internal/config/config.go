package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/render"
)

const (
	DefaultGravity     = 9.81
	DefaultDampening   = 0.9
	DefaultFixedDt     = 1.0 / 60.0
	DefaultSubsteps    = 5
	DefaultMinY        = 0.4
	DefaultFrames      = 600
	DefaultWidth       = 1280.0
	DefaultAspectRatio = 16.0 / 9.0
	DefaultSimMinWidth = 20.0
	DefaultBallRadius  = 0.2
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Integrator string        `yaml:"integrator"`
	Frames     int           `yaml:"frames"`
	Physics    PhysicsConfig `yaml:"physics"`
	Window     WindowConfig  `yaml:"window"`
}

type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`
	Dampening    float64 `yaml:"dampening"`
	FixedDt      float64 `yaml:"fixed_dt"`
	Substeps     int     `yaml:"substeps"`
	MinY         float64 `yaml:"min_y"`
	InitPosition Vec     `yaml:"init_position"`
	InitVelocity Vec     `yaml:"init_velocity"`
}

// WindowConfig describes the render target. The simulation domain is derived
// from it: the shorter side spans SimMinWidth units.
type WindowConfig struct {
	Title       string  `yaml:"title"`
	Width       float64 `yaml:"width"`
	AspectRatio float64 `yaml:"aspect_ratio"`
	SimMinWidth float64 `yaml:"sim_min_width"`
	BallRadius  float64 `yaml:"ball_radius"`
	Background  string  `yaml:"background"`
	BallColor   string  `yaml:"ball_color"`
}

type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec) Vec2() mgl64.Vec2 { return mgl64.Vec2{v.X, v.Y} }

func DefaultConfig() *Config {
	return &Config{
		Integrator: "symplectic",
		Frames:     DefaultFrames,
		Physics: PhysicsConfig{
			Gravity:      DefaultGravity,
			Dampening:    DefaultDampening,
			FixedDt:      DefaultFixedDt,
			Substeps:     DefaultSubsteps,
			MinY:         DefaultMinY,
			InitPosition: Vec{X: 0.2, Y: 0.2},
			InitVelocity: Vec{X: 10.0, Y: 15.0},
		},
		Window: WindowConfig{
			Title:       "Cannonball Simulation!",
			Width:       DefaultWidth,
			AspectRatio: DefaultAspectRatio,
			SimMinWidth: DefaultSimMinWidth,
			BallRadius:  DefaultBallRadius,
			Background:  "#1e1e1e",
			BallColor:   "#eae0d5",
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto reads path on top of a copy of base, so keys missing from the file
// keep base's values. base is not modified.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (w WindowConfig) Height() float64 { return w.Width / w.AspectRatio }

// Scale is pixels per simulation unit.
func (w WindowConfig) Scale() float64 { return w.Height() / w.SimMinWidth }

func (w WindowConfig) SimWidth() float64  { return w.Width / w.Scale() }
func (w WindowConfig) SimHeight() float64 { return w.Height() / w.Scale() }

func (c *Config) Validate() error {
	p, w := c.Physics, c.Window
	switch {
	case p.FixedDt <= 0:
		return fmt.Errorf("%w: fixed_dt must be positive, got %f", ErrInvalidConfig, p.FixedDt)
	case p.Substeps < 1:
		return fmt.Errorf("%w: substeps must be at least 1, got %d", ErrInvalidConfig, p.Substeps)
	case p.Dampening < 0 || p.Dampening > 1:
		return fmt.Errorf("%w: dampening must be in [0, 1], got %f", ErrInvalidConfig, p.Dampening)
	case w.Width <= 0 || w.AspectRatio <= 0 || w.SimMinWidth <= 0:
		return fmt.Errorf("%w: window width, aspect_ratio and sim_min_width must be positive", ErrInvalidConfig)
	case p.MinY < 0 || p.MinY >= w.SimHeight():
		return fmt.Errorf("%w: min_y must be in [0, %.2f), got %f", ErrInvalidConfig, w.SimHeight(), p.MinY)
	case c.Frames < 0:
		return fmt.Errorf("%w: frames must not be negative, got %d", ErrInvalidConfig, c.Frames)
	}
	return nil
}

// Constants validates the configuration and freezes it into the values the
// integrator runs with.
func (c *Config) Constants() (dynamo.Constants, error) {
	if err := c.Validate(); err != nil {
		return dynamo.Constants{}, err
	}
	return dynamo.Constants{
		Gravity:   c.Physics.Gravity,
		Dampening: c.Physics.Dampening,
		SimWidth:  c.Window.SimWidth(),
		SimHeight: c.Window.SimHeight(),
		FixedDt:   c.Physics.FixedDt,
		Substeps:  c.Physics.Substeps,
		MinY:      c.Physics.MinY,
	}, nil
}

func (c *Config) InitialBody() *dynamo.Body {
	return dynamo.NewBody(c.Physics.InitPosition.Vec2(), c.Physics.InitVelocity.Vec2())
}

func (c *Config) Mapper() render.Mapper {
	return render.NewMapper(c.Window.Height(), c.Window.Scale())
}

// Clone returns an independent copy; presets are shared and must not be
// mutated in place.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
