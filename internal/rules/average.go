package rules

import "github.com/san-kum/gridsim/internal/stencil"

// Average is the minimal example rule: next = c/9 + sum(neighbors)/10 over
// plain in-bounds neighbors, so edge cells see fewer terms. The boundary mode
// and obstacle insulation do not apply.
type Average struct{}

func NewAverage() *Average { return &Average{} }

func (a *Average) Name() string { return "average" }
func (a *Average) Padding() int { return 0 }

func (a *Average) Next(s *stencil.Site) float64 {
	sum := 0.0
	for _, v := range s.Field.Neighbors(s.Row, s.Col) {
		sum += v
	}
	return s.Center/9 + sum/10
}
