package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/sim"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run in a scenario. Unset fields fall back to the
// preset, or to the defaults when no preset is named.
type ScenarioStep struct {
	Name         string      `yaml:"name"`
	Preset       string      `yaml:"preset"`
	Integrator   string      `yaml:"integrator"`
	Frames       int         `yaml:"frames"`
	Gravity      *float64    `yaml:"gravity"`
	Dampening    *float64    `yaml:"dampening"`
	Substeps     *int        `yaml:"substeps"`
	InitPosition *config.Vec `yaml:"init_position"`
	InitVelocity *config.Vec `yaml:"init_velocity"`
}

// Config resolves the step into a validated configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}

	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Frames > 0 {
		cfg.Frames = s.Frames
	}
	if s.Gravity != nil {
		cfg.Physics.Gravity = *s.Gravity
	}
	if s.Dampening != nil {
		cfg.Physics.Dampening = *s.Dampening
	}
	if s.Substeps != nil {
		cfg.Physics.Substeps = *s.Substeps
	}
	if s.InitPosition != nil {
		cfg.Physics.InitPosition = *s.InitPosition
	}
	if s.InitVelocity != nil {
		cfg.Physics.InitVelocity = *s.InitVelocity
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

type StepResult struct {
	Name      string
	Config    *config.Config
	Constants dynamo.Constants
	Result    *dynamo.Result
}

// RunScenario executes the steps in order and stops at the first failure,
// returning the results gathered so far. A canceled step's partial result is
// included.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, log logr.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		log.Info("running step", "step", i+1, "of", len(scenario.Steps), "name", name)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, log)
		if err := exp.Setup(registry, sim.FixedClock(cfg.Physics.FixedDt)); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			if result != nil {
				results = append(results, StepResult{Name: name, Config: cfg, Constants: exp.Constants(), Result: result})
			}
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Name: name, Config: cfg, Constants: exp.Constants(), Result: result})
	}

	return results, nil
}

// MonteCarloConfig perturbs the initial velocity of a base configuration
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
	Workers      int
}

// MonteCarloResult holds the outcome of one perturbed trial
type MonteCarloResult struct {
	TrialID   int
	Initial   dynamo.Body
	Final     dynamo.Body
	Bounces   int
	Contained bool // every stepped frame inside the domain
}

// RunMonteCarlo runs the trials concurrently through a sim.Ensemble.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.NumTrials)
	}
	consts, err := cfg.Base.Constants()
	if err != nil {
		return nil, err
	}
	newIntegrator, err := registry.Factory(cfg.Base.Integrator)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	base := cfg.Base.InitialBody()
	variants := make([]sim.Variant, cfg.NumTrials)
	for trial := range variants {
		b := base.Clone()
		b.Velocity[0] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		b.Velocity[1] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		variants[trial] = sim.Variant{Name: fmt.Sprintf("trial%d", trial), Constants: consts, Initial: b}
	}

	runCfg := dynamo.DefaultConfig()
	runCfg.Frames = cfg.Base.Frames

	ensemble := sim.NewEnsemble(newIntegrator, registry.DefaultMetrics, cfg.Base.Mapper(), cfg.Workers)
	runs, err := ensemble.Run(ctx, variants, runCfg)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		results[i] = MonteCarloResult{
			TrialID:   i,
			Initial:   *variants[i].Initial,
			Final:     *r.Final(),
			Bounces:   r.Bounces,
			Contained: contained(r, consts),
		}
	}

	return results, nil
}

// contained skips the initial sample, which may start outside the domain.
func contained(r *dynamo.Result, c dynamo.Constants) bool {
	for _, p := range r.Positions[1:] {
		if !c.Contains(p) {
			return false
		}
	}
	return true
}

// MonteCarloStats counts contained and escaped trials
func MonteCarloStats(results []MonteCarloResult) (contained int, escaped int) {
	for _, r := range results {
		if r.Contained {
			contained++
		} else {
			escaped++
		}
	}
	return
}
