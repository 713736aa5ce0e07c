package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/integrators"
	"github.com/san-kum/ballsim/internal/metrics"
)

type Registry struct {
	integrators map[string]func(dynamo.Constants) dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func(dynamo.Constants) dynamo.Integrator),
	}

	r.integrators["symplectic"] = func(c dynamo.Constants) dynamo.Integrator { return integrators.NewSymplectic(c) }
	r.integrators["euler"] = func(c dynamo.Constants) dynamo.Integrator { return integrators.NewEuler(c) }

	return r
}

func (r *Registry) GetIntegrator(name string, c dynamo.Constants) (dynamo.Integrator, error) {
	fn, err := r.Factory(name)
	if err != nil {
		return nil, err
	}
	return fn(c), nil
}

// Factory returns the constructor registered under name, for callers that
// build one integrator per variant.
func (r *Registry) Factory(name string) (func(dynamo.Constants) dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownIntegrator, name, r.ListIntegrators())
	}
	return fn, nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(c dynamo.Constants) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergy(c.Gravity),
		metrics.NewDissipation(c.Gravity),
		metrics.NewContainment(c),
		metrics.NewBounces(),
	}
}
