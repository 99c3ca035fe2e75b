package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent runners concurrently with a shared config.
// Each runner must own its engine.
type Ensemble struct {
	runners []*Runner
}

func NewEnsemble(runners ...*Runner) *Ensemble {
	return &Ensemble{runners: runners}
}

func (e *Ensemble) Len() int { return len(e.runners) }

// Run starts every runner and waits for all of them. The first error cancels
// the rest; results are indexed like the runners and may hold partial runs.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]*Result, len(e.runners))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range e.runners {
		g.Go(func() error {
			res, err := r.Run(gctx, cfg)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
