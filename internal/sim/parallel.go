package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/render"
)

// Variant is one member of an ensemble: its own constants and start state.
type Variant struct {
	Name      string
	Constants dynamo.Constants
	Initial   *dynamo.Body
}

type IntegratorFactory func(dynamo.Constants) dynamo.Integrator

type MetricsFactory func(dynamo.Constants) []dynamo.Metric

// Ensemble runs independent single-ball simulations concurrently. Each
// variant gets its own body, integrator and metrics; nothing is shared.
type Ensemble struct {
	newIntegrator IntegratorFactory
	newMetrics    MetricsFactory
	mapper        render.Mapper
	limit         int
}

func NewEnsemble(newIntegrator IntegratorFactory, newMetrics MetricsFactory, mapper render.Mapper, limit int) *Ensemble {
	return &Ensemble{newIntegrator: newIntegrator, newMetrics: newMetrics, mapper: mapper, limit: limit}
}

func (e *Ensemble) Run(ctx context.Context, variants []Variant, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(variants))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i, v := range variants {
		g.Go(func() error {
			s := New(e.newIntegrator(v.Constants), e.mapper, FixedClock(v.Constants.FixedDt))
			if e.newMetrics != nil {
				for _, m := range e.newMetrics(v.Constants) {
					s.AddMetric(m)
				}
			}
			res, err := s.Run(ctx, v.Initial.Clone(), cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
