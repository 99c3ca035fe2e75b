package stencil

// Paired views two equally sized grids as one field of value pairs.
type Paired struct {
	First, Second *Grid
}

func NewPaired(a, b *Grid) (*Paired, error) {
	if a == nil || b == nil {
		return nil, configErrorf("paired grid is nil")
	}
	if a.width != b.width || a.height != b.height {
		return nil, configErrorf("paired grids differ: %dx%d vs %dx%d", a.width, a.height, b.width, b.height)
	}
	return &Paired{First: a, Second: b}, nil
}

func (p *Paired) Width() int  { return p.First.width }
func (p *Paired) Height() int { return p.First.height }

// Get returns both values at (row, col).
func (p *Paired) Get(row, col int) (float64, float64, error) {
	a, err := p.First.Get(row, col)
	if err != nil {
		return 0, 0, err
	}
	return a, p.Second.At(row, col), nil
}
