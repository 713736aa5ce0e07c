package experiment

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/sim"
)

// Experiment is one configured run: a validated config, the integrator it
// names and the default metrics.
type Experiment struct {
	cfg       *config.Config
	consts    dynamo.Constants
	simulator *sim.Simulator
	log       logr.Logger
}

func New(cfg *config.Config, log logr.Logger) *Experiment {
	return &Experiment{cfg: cfg, log: log}
}

func (e *Experiment) Setup(r *Registry, clock sim.Clock) error {
	consts, err := e.cfg.Constants()
	if err != nil {
		return err
	}
	integ, err := r.GetIntegrator(e.cfg.Integrator, consts)
	if err != nil {
		return err
	}

	e.consts = consts
	e.simulator = sim.New(integ, e.cfg.Mapper(), clock)
	e.simulator.SetLogger(e.log)
	for _, m := range r.DefaultMetrics(consts) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	cfg := dynamo.DefaultConfig()
	cfg.Frames = e.cfg.Frames
	return e.simulator.Run(ctx, e.cfg.InitialBody(), cfg)
}

func (e *Experiment) Constants() dynamo.Constants { return e.consts }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
