package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gridsim/internal/sim"
)

func frame(metric float64, rows ...[]float64) sim.Frame {
	return sim.Frame{Metric: metric, Snapshot: rows}
}

func TestTotal(t *testing.T) {
	m := NewTotal()
	m.Observe(frame(10))
	m.Observe(frame(12.5))
	if m.Value() != 12.5 {
		t.Errorf("expected 12.5, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestDrift(t *testing.T) {
	tests := []struct {
		name    string
		metrics []float64
		want    float64
	}{
		{"conserved", []float64{100, 100, 100}, 0},
		{"relative", []float64{100, 90, 105}, 0.1},
		{"zero baseline", []float64{0, 2, -3}, 3},
		{"single sample", []float64{7}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewDrift()
			for _, v := range tt.metrics {
				m.Observe(frame(v))
			}
			if math.Abs(m.Value()-tt.want) > 1e-12 {
				t.Errorf("drift = %f, want %f", m.Value(), tt.want)
			}
		})
	}
}

func TestDriftReset(t *testing.T) {
	m := NewDrift()
	m.Observe(frame(10))
	m.Observe(frame(20))
	m.Reset()

	m.Observe(frame(20))
	if m.Value() != 0 {
		t.Errorf("reset should rebase drift, got %f", m.Value())
	}
}

func TestPeakAndActive(t *testing.T) {
	p, a := NewPeak(), NewActive()
	f := frame(0, []float64{0, -4, 1}, []float64{0, 0, 2})
	p.Observe(f)
	a.Observe(f)

	if p.Value() != 4 {
		t.Errorf("peak = %f, want 4", p.Value())
	}
	if a.Value() != 3 {
		t.Errorf("active = %f, want 3", a.Value())
	}

	a.Observe(frame(0, []float64{0, 1}))
	if a.Value() != 1 {
		t.Errorf("active should track the latest frame, got %f", a.Value())
	}
}

func TestStandardNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Standard() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	for _, name := range []string{"total", "drift", "peak", "active"} {
		if !seen[name] {
			t.Errorf("missing metric %s", name)
		}
	}
}
