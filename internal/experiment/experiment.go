package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/gridsim/internal/sim"
	"github.com/san-kum/gridsim/internal/stencil"
)

type Config struct {
	Model       string
	Width       int
	Height      int
	Params      map[string]float64
	ValidValues []float64
	Run         sim.Config

	// Init writes initial conditions into a fresh engine before the runner
	// is attached.
	Init func(*stencil.Engine) error
}

// Experiment pairs a configured engine with its runner.
type Experiment struct {
	cfg    Config
	runner *sim.Runner
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup instantiates the model, applies Init and attaches the registry's
// default metrics.
func (e *Experiment) Setup(reg *Registry, log *logrus.Entry) error {
	var opts []stencil.Option
	if len(e.cfg.ValidValues) > 0 {
		opts = append(opts, stencil.WithValidValues(e.cfg.ValidValues...))
	}
	engine, err := reg.Instantiate(e.cfg.Model, e.cfg.Width, e.cfg.Height, e.cfg.Params, opts...)
	if err != nil {
		return err
	}
	if e.cfg.Init != nil {
		if err := e.cfg.Init(engine); err != nil {
			return fmt.Errorf("init %s: %w", e.cfg.Model, err)
		}
	}
	if log != nil {
		log = log.WithField("model", e.cfg.Model)
	}
	e.runner = sim.NewRunner(engine, log)
	for _, m := range reg.DefaultMetrics(e.cfg.Model) {
		e.runner.AddMetric(m)
	}
	return nil
}

var errNotSetup = errors.New("experiment not setup")

// Start runs the experiment in the background as session id of s.
func (e *Experiment) Start(ctx context.Context, s *sim.Sessions, id string) (*sim.Session, error) {
	if e.runner == nil {
		return nil, errNotSetup
	}
	return s.Start(ctx, id, e.runner, e.cfg.Run)
}

func (e *Experiment) Runner() *sim.Runner { return e.runner }

// Engine returns nil before Setup.
func (e *Experiment) Engine() *stencil.Engine {
	if e.runner == nil {
		return nil
	}
	return e.runner.Engine()
}

func (e *Experiment) Config() Config { return e.cfg }
