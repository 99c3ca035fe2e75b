package stencil

// Site is the view of one cell handed to a Rule during a sweep. Row and Col
// are storage coordinates; Field holds the pre-step state and must not be
// written.
type Site struct {
	Row, Col int
	Center   float64
	Ortho    [4]float64
	Diag     [4]float64
	HasDiag  bool
	Field    *Grid
}

// Rule computes a cell's next value from its current neighborhood.
type Rule interface {
	Name() string
	// Padding is the width of the border ring excluded from the sweep, 0 or 1.
	Padding() int
	Next(s *Site) float64
}

// Binder is implemented by rules that keep per-cell state. Bind is called
// once at engine construction with the storage dimensions.
type Binder interface {
	Bind(width, height int) error
}

// Seeder is implemented by rules that react to explicit writes. Seed is called
// for every cell an engine mutator writes, in storage coordinates.
type Seeder interface {
	Seed(row, col int, v float64)
}

// Configurable exposes a rule's parameters.
type Configurable interface {
	Params() map[string]float64
}
