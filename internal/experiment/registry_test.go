package experiment

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gridsim/internal/sim"
	"github.com/san-kum/gridsim/internal/stencil"
)

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"average", "heat", "ripple"}, r.ListModels())

	m, err := r.Get("heat")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"diffusivity": 0.2, "dt": 1.0}, m.Defaults())

	_, err = r.Get("life")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestInstantiate(t *testing.T) {
	r := NewRegistry()

	e, err := r.Instantiate("heat", 6, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, "heat", e.Rule().Name())
	assert.Equal(t, 6, e.Width())
	assert.Equal(t, 4, e.Height())
	assert.Equal(t, 1.0, e.TimeStep())

	e, err = r.Instantiate("heat", 3, 3, map[string]float64{"dt": 0.5})
	require.NoError(t, err)
	assert.Equal(t, 0.5, e.TimeStep())

	e, err = r.Instantiate("ripple", 3, 3, nil, stencil.WithValidValues(0, 1))
	require.NoError(t, err)
	assert.Error(t, e.SetValue(0, 0, 2))
}

func TestInstantiateErrors(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name   string
		model  string
		params map[string]float64
		want   error
	}{
		{"unknown model", "life", nil, ErrUnknownModel},
		{"unknown param", "ripple", map[string]float64{"speed": 1}, ErrInvalidParams},
		{"unstable heat", "heat", map[string]float64{"diffusivity": 1, "dt": 1}, stencil.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Instantiate(tt.model, 4, 4, tt.params)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRequiredParam(t *testing.T) {
	r := NewRegistry()
	r.Register(Model{
		Name:   "strict",
		Params: []ParamSpec{{Name: "k", Required: true}},
		build: func(map[string]float64) (stencil.Rule, []stencil.Option, error) {
			return nil, nil, nil
		},
	})

	_, err := r.Resolve("strict", nil)
	assert.ErrorIs(t, err, ErrInvalidParams)

	got, err := r.Resolve("strict", map[string]float64{"k": 2})
	require.NoError(t, err)
	assert.Equal(t, 2.0, got["k"])
}

func TestExperimentStart(t *testing.T) {
	exp := New(Config{
		Model:  "heat",
		Width:  5,
		Height: 5,
		Run:    sim.Config{Steps: 4, Wrap: true},
		Init: func(e *stencil.Engine) error {
			return e.SetValue(2, 2, 50)
		},
	})
	sessions := sim.NewSessions(nil)

	_, err := exp.Start(context.Background(), sessions, "heat")
	assert.Error(t, err)
	assert.Nil(t, exp.Engine())

	require.NoError(t, exp.Setup(NewRegistry(), nil))
	v, err := exp.Engine().Value(2, 2)
	require.NoError(t, err)
	assert.InDelta(t, 50, v, 1e-12)

	_, err = exp.Start(context.Background(), sessions, "heat")
	require.NoError(t, err)
	res, err := sessions.Wait("heat")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Steps)
	assert.InDelta(t, 50, res.Metrics["total"], 1e-9)
	assert.InDelta(t, 0, res.Metrics["drift"], 1e-12)
	assert.Contains(t, res.Metrics, "peak")
	assert.Contains(t, res.Metrics, "active")
}

func TestExperimentInitError(t *testing.T) {
	exp := New(Config{
		Model:  "heat",
		Width:  3,
		Height: 3,
		Run:    sim.Config{Steps: 1},
		Init: func(e *stencil.Engine) error {
			return e.SetValue(7, 7, 1)
		},
	})
	err := exp.Setup(NewRegistry(), nil)
	assert.ErrorIs(t, err, stencil.ErrRange)
	assert.Nil(t, exp.Engine())
}

func TestExperimentRejectsNaNParams(t *testing.T) {
	exp := New(Config{
		Model:  "heat",
		Width:  3,
		Height: 3,
		Params: map[string]float64{"dt": math.NaN()},
		Run:    sim.Config{Steps: 1},
	})
	assert.ErrorIs(t, exp.Setup(NewRegistry(), nil), stencil.ErrConfig)
}
