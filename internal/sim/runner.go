package sim

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/gridsim/internal/stencil"
)

// Runner drives one engine. It is the engine's only writer while Run is
// active; Stop may be called from any goroutine.
type Runner struct {
	engine    *stencil.Engine
	log       *logrus.Entry
	metrics   []Metric
	observers []Observer
	running   atomic.Bool
}

// NewRunner wraps e. A nil log discards output.
func NewRunner(e *stencil.Engine, log *logrus.Entry) *Runner {
	if log == nil {
		log = NewRunnerLog(nil)
	}
	return &Runner{
		engine:    e,
		log:       log.WithField("rule", e.Rule().Name()),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

// NewRunnerLog returns an entry on l, or on a discarding logger when l is nil.
func NewRunnerLog(l *logrus.Logger) *logrus.Entry {
	if l == nil {
		l = logrus.New()
		l.SetOutput(io.Discard)
	}
	return logrus.NewEntry(l)
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Engine() *stencil.Engine { return r.engine }

func (r *Runner) Running() bool { return r.running.Load() }

// Stop asks the run loop to finish after the step in progress.
func (r *Runner) Stop() { r.running.Store(false) }

// Run advances the engine cfg.Steps times. Stop requests and context
// cancellation are honored between steps only, so every step completes its
// full sweep and swap. A canceled context returns the partial result with
// ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrRunning
	}
	return r.run(ctx, cfg)
}

// run expects the running flag to be set already and clears it on return.
func (r *Runner) run(ctx context.Context, cfg Config) (*Result, error) {
	defer r.running.Store(false)

	for _, m := range r.metrics {
		m.Reset()
	}

	start := time.Now()
	result := &Result{Metrics: make(map[string]float64)}
	r.log.WithFields(logrus.Fields{
		"steps":     cfg.Steps,
		"diagonals": cfg.Diagonals,
		"wrap":      cfg.Wrap,
	}).Debug("run started")

	r.publish(Frame{Step: 0, Total: cfg.Steps, Metric: r.engine.Metric(), Snapshot: r.engine.Snapshot()})

	var runErr error
loop:
	for i := 0; i < cfg.Steps; i++ {
		if !r.running.Load() {
			result.Stopped = true
			break
		}
		select {
		case <-ctx.Done():
			result.Stopped = true
			runErr = ctx.Err()
			break loop
		default:
		}

		r.engine.Step(cfg.Diagonals, cfg.Wrap)
		result.Steps++

		if !cfg.emits(i, cfg.Steps) {
			continue
		}
		metric := r.engine.Metric()
		r.publish(Frame{
			Step:     result.Steps,
			Total:    cfg.Steps,
			Time:     float64(r.engine.Steps()) * r.engine.TimeStep(),
			Metric:   metric,
			Snapshot: r.engine.Snapshot(),
		})
		r.log.WithFields(logrus.Fields{"step": result.Steps, "metric": metric}).Trace("frame")

		if cfg.Delay > 0 && i < cfg.Steps-1 {
			t := time.NewTimer(cfg.Delay)
			select {
			case <-ctx.Done():
				t.Stop()
				result.Stopped = true
				runErr = ctx.Err()
				break loop
			case <-t.C:
			}
		}
	}

	result.History = r.engine.History()
	result.Final = r.engine.Snapshot()
	result.Elapsed = time.Since(start)
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	entry := r.log.WithFields(logrus.Fields{"steps": result.Steps, "elapsed": result.Elapsed})
	if result.Stopped {
		entry.Info("run stopped")
	} else {
		entry.Debug("run completed")
	}
	return result, runErr
}

func (r *Runner) publish(f Frame) {
	for _, m := range r.metrics {
		m.Observe(f)
	}
	for _, o := range r.observers {
		o.OnFrame(f)
	}
}
