package rules

import (
	"fmt"

	"github.com/san-kum/gridsim/internal/stencil"
)

// Heat integrates the heat equation u_t = D*lap(u) with forward Euler.
type Heat struct {
	Diffusivity float64
	Dt          float64
}

// NewHeat validates the explicit-scheme stability bound dt <= 1/(4D).
func NewHeat(diffusivity, dt float64) (*Heat, error) {
	if !(diffusivity > 0) {
		return nil, fmt.Errorf("%w: diffusivity %g must be positive", stencil.ErrConfig, diffusivity)
	}
	if !(dt > 0) {
		return nil, fmt.Errorf("%w: time step %g must be positive", stencil.ErrConfig, dt)
	}
	if limit := StabilityLimit(diffusivity); !(dt <= limit) {
		return nil, fmt.Errorf("%w: time step %g exceeds stability limit %g for diffusivity %g",
			stencil.ErrConfig, dt, limit, diffusivity)
	}
	return &Heat{Diffusivity: diffusivity, Dt: dt}, nil
}

// StabilityLimit is the largest stable time step for diffusivity d.
func StabilityLimit(d float64) float64 {
	return 1 / (4 * d)
}

func (h *Heat) Name() string { return "heat" }
func (h *Heat) Padding() int { return 1 }

func (h *Heat) Next(s *stencil.Site) float64 {
	return s.Center + h.Diffusivity*h.Dt*Laplacian(s)
}

// Laplacian returns the 5-point estimate, or the 9-point one when diagonal
// neighbors are present.
func Laplacian(s *stencil.Site) float64 {
	ortho := s.Ortho[0] + s.Ortho[1] + s.Ortho[2] + s.Ortho[3]
	if !s.HasDiag {
		return ortho - 4*s.Center
	}
	diag := s.Diag[0] + s.Diag[1] + s.Diag[2] + s.Diag[3]
	return (4*ortho + diag - 20*s.Center) / 6
}

func (h *Heat) Params() map[string]float64 {
	return map[string]float64{"diffusivity": h.Diffusivity, "dt": h.Dt}
}
