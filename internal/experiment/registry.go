package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/gridsim/internal/metrics"
	"github.com/san-kum/gridsim/internal/rules"
	"github.com/san-kum/gridsim/internal/sim"
	"github.com/san-kum/gridsim/internal/stencil"
)

var (
	ErrUnknownModel  = errors.New("experiment: unknown model")
	ErrInvalidParams = errors.New("experiment: invalid parameters")
)

type ParamSpec struct {
	Name        string
	Description string
	Default     float64
	Required    bool
}

// Model describes a rule that can be instantiated by name.
type Model struct {
	Name        string
	Description string
	Params      []ParamSpec
	build       func(params map[string]float64) (stencil.Rule, []stencil.Option, error)
}

// Defaults returns the default value of every optional parameter.
func (m Model) Defaults() map[string]float64 {
	out := make(map[string]float64, len(m.Params))
	for _, p := range m.Params {
		if !p.Required {
			out[p.Name] = p.Default
		}
	}
	return out
}

type Registry struct {
	models map[string]Model
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]Model)}

	r.Register(Model{
		Name:        "heat",
		Description: "forward-Euler heat diffusion",
		Params: []ParamSpec{
			{Name: "diffusivity", Description: "diffusion coefficient D", Default: 0.2},
			{Name: "dt", Description: "time step, at most 1/(4D)", Default: 1.0},
		},
		build: func(p map[string]float64) (stencil.Rule, []stencil.Option, error) {
			h, err := rules.NewHeat(p["diffusivity"], p["dt"])
			if err != nil {
				return nil, nil, err
			}
			return h, []stencil.Option{stencil.WithTimeStep(p["dt"])}, nil
		},
	})
	r.Register(Model{
		Name:        "ripple",
		Description: "one-step pulse propagation with refractory cells",
		build: func(map[string]float64) (stencil.Rule, []stencil.Option, error) {
			return rules.NewRipple(), nil, nil
		},
	})
	r.Register(Model{
		Name:        "average",
		Description: "unpadded neighbor averaging",
		build: func(map[string]float64) (stencil.Rule, []stencil.Option, error) {
			return rules.NewAverage(), nil, nil
		},
	})

	return r
}

// Register adds or replaces a model.
func (r *Registry) Register(m Model) {
	r.models[m.Name] = m
}

func (r *Registry) Get(name string) (Model, error) {
	m, ok := r.models[name]
	if !ok {
		return Model{}, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return m, nil
}

// List returns every model sorted by name.
func (r *Registry) List() []Model {
	out := make([]Model, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for _, m := range r.List() {
		names = append(names, m.Name)
	}
	return names
}

// Resolve merges params over the model defaults and rejects unknown or
// missing parameters.
func (r *Registry) Resolve(name string, params map[string]float64) (map[string]float64, error) {
	m, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	known := make(map[string]ParamSpec, len(m.Params))
	for _, p := range m.Params {
		known[p.Name] = p
	}
	for k := range params {
		if _, ok := known[k]; !ok {
			return nil, fmt.Errorf("%w: %s has no parameter %q", ErrInvalidParams, name, k)
		}
	}

	out := m.Defaults()
	for k, v := range params {
		out[k] = v
	}
	for _, p := range m.Params {
		if _, ok := out[p.Name]; p.Required && !ok {
			return nil, fmt.Errorf("%w: %s requires %q", ErrInvalidParams, name, p.Name)
		}
	}
	return out, nil
}

// Instantiate builds an engine for the named model. Extra options are applied
// after the model's own.
func (r *Registry) Instantiate(name string, width, height int, params map[string]float64, opts ...stencil.Option) (*stencil.Engine, error) {
	resolved, err := r.Resolve(name, params)
	if err != nil {
		return nil, err
	}
	m := r.models[name]

	rule, ruleOpts, err := m.build(resolved)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stencil.New(width, height, rule, append(ruleOpts, opts...)...)
}

func (r *Registry) DefaultMetrics(model string) []sim.Metric {
	return metrics.Standard()
}
