package rules

import (
	"fmt"

	"github.com/san-kum/gridsim/internal/stencil"
)

// Ripple propagates pulses outward one ring per step. A cell that fired on
// the previous visit returns to zero; otherwise it takes the last nonzero
// neighbor in scan order (orthogonal up, down, left, right, then diagonal
// up-left, up-right, down-left, down-right) and fires.
type Ripple struct {
	width, height int
	fired         []bool
}

func NewRipple() *Ripple { return &Ripple{} }

func (p *Ripple) Name() string { return "ripple" }
func (p *Ripple) Padding() int { return 1 }

// Bind sizes the fired field. A Ripple serves a single engine.
func (p *Ripple) Bind(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("ripple field %dx%d", width, height)
	}
	if p.fired != nil {
		return fmt.Errorf("ripple already bound to a %dx%d field", p.width, p.height)
	}
	p.width, p.height = width, height
	p.fired = make([]bool, width*height)
	return nil
}

// Seed marks explicitly written nonzero cells as fired, so a dropped pulse
// clears on the next step instead of echoing in place.
func (p *Ripple) Seed(row, col int, v float64) {
	if idx, ok := p.index(row, col); ok {
		p.fired[idx] = v != 0
	}
}

func (p *Ripple) index(row, col int) (int, bool) {
	if row < 0 || row >= p.height || col < 0 || col >= p.width {
		return 0, false
	}
	return row*p.width + col, true
}

func (p *Ripple) Next(s *stencil.Site) float64 {
	idx, ok := p.index(s.Row, s.Col)
	if !ok {
		return 0
	}
	if p.fired[idx] {
		p.fired[idx] = false
		return 0
	}
	v := 0.0
	for _, n := range s.Ortho {
		if n != 0 {
			v = n
		}
	}
	if s.HasDiag {
		for _, n := range s.Diag {
			if n != 0 {
				v = n
			}
		}
	}
	p.fired[idx] = v != 0
	return v
}

// Fired reports whether storage cell (row, col) fired on its last visit.
func (p *Ripple) Fired(row, col int) bool {
	idx, ok := p.index(row, col)
	return ok && p.fired[idx]
}

// Active counts fired cells.
func (p *Ripple) Active() int {
	n := 0
	for _, f := range p.fired {
		if f {
			n++
		}
	}
	return n
}
