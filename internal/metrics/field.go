package metrics

import (
	"math"

	"github.com/san-kum/gridsim/internal/sim"
)

// Total reports the engine metric of the latest frame.
type Total struct {
	name  string
	value float64
}

func NewTotal() *Total {
	return &Total{name: "total"}
}

func (t *Total) Name() string { return t.name }

func (t *Total) Observe(f sim.Frame) { t.value = f.Metric }

func (t *Total) Value() float64 { return t.value }

func (t *Total) Reset() { t.value = 0 }

// Drift tracks the largest relative deviation of the metric from its first
// observation. A zero baseline falls back to absolute deviation.
type Drift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewDrift() *Drift {
	return &Drift{name: "drift"}
}

func (d *Drift) Name() string { return d.name }

func (d *Drift) Observe(f sim.Frame) {
	if d.samples == 0 {
		d.initial = f.Metric
	}
	d.samples++

	dev := math.Abs(f.Metric - d.initial)
	if d.initial != 0 {
		dev /= math.Abs(d.initial)
	}
	d.maxDrift = math.Max(d.maxDrift, dev)
}

func (d *Drift) Value() float64 { return d.maxDrift }

func (d *Drift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}

type Peak struct {
	name string
	peak float64
}

func NewPeak() *Peak {
	return &Peak{name: "peak"}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(f sim.Frame) {
	for _, row := range f.Snapshot {
		for _, v := range row {
			if a := math.Abs(v); a > p.peak {
				p.peak = a
			}
		}
	}
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() { p.peak = 0 }

// Active counts nonzero cells in the latest snapshot.
type Active struct {
	name  string
	count int
}

func NewActive() *Active {
	return &Active{name: "active"}
}

func (a *Active) Name() string { return a.name }

func (a *Active) Observe(f sim.Frame) {
	a.count = 0
	for _, row := range f.Snapshot {
		for _, v := range row {
			if v != 0 {
				a.count++
			}
		}
	}
}

func (a *Active) Value() float64 { return float64(a.count) }

func (a *Active) Reset() { a.count = 0 }

// Standard returns one of each field metric.
func Standard() []sim.Metric {
	return []sim.Metric{NewTotal(), NewDrift(), NewPeak(), NewActive()}
}
