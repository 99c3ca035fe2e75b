package stencil

import "fmt"

// Engine advances a scalar field one synchronous step at a time under a Rule.
// The field and the obstacle mask are allocated once, in storage dimensions
// (logical size plus twice the rule's padding), and never resized.
type Engine struct {
	width, height int // logical
	pad           int
	field         *Grid
	spare         *Grid
	mask          *Mask
	resolver      Resolver
	rule          Rule
	seeder        Seeder
	timeStep      float64
	steps         int
	history       []float64
}

// Option configures an Engine at construction.
type Option func(*options)

type options struct {
	valid    []float64
	timeStep float64
}

// WithValidValues restricts every stored value to the given set.
func WithValidValues(values ...float64) Option {
	return func(o *options) { o.valid = append(o.valid, values...) }
}

// WithTimeStep records the physical time represented by one step.
func WithTimeStep(dt float64) Option {
	return func(o *options) { o.timeStep = dt }
}

// New builds an engine for a width x height logical domain.
func New(width, height int, rule Rule, opts ...Option) (*Engine, error) {
	if rule == nil {
		return nil, ErrMissingRule
	}
	if width <= 0 || height <= 0 {
		return nil, configErrorf("domain size %dx%d must be positive", width, height)
	}
	pad := rule.Padding()
	if pad < 0 || pad > 1 {
		return nil, configErrorf("rule %s padding %d not in [0,1]", rule.Name(), pad)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeStep < 0 {
		return nil, configErrorf("time step %g is negative", o.timeStep)
	}

	sw, sh := width+2*pad, height+2*pad
	field, err := NewGrid(sw, sh, o.valid...)
	if err != nil {
		return nil, err
	}
	if !field.Valid(0) {
		field.Fill(field.Nearest(0))
	}
	mask, err := NewMask(sw, sh)
	if err != nil {
		return nil, err
	}
	if err := Pair(field, mask); err != nil {
		return nil, err
	}
	if b, ok := rule.(Binder); ok {
		if err := b.Bind(sw, sh); err != nil {
			return nil, fmt.Errorf("%w: bind %s: %v", ErrConfig, rule.Name(), err)
		}
	}

	e := &Engine{
		width:    width,
		height:   height,
		pad:      pad,
		field:    field,
		spare:    field.Clone(),
		mask:     mask,
		rule:     rule,
		timeStep: o.timeStep,
	}
	e.resolver = Resolver{Field: e.field, Mask: e.mask, Pad: pad}
	if s, ok := rule.(Seeder); ok {
		e.seeder = s
	}
	return e, nil
}

// FromSnapshot builds an engine whose logical field equals rows.
func FromSnapshot(rows [][]float64, rule Rule, opts ...Option) (*Engine, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, configErrorf("empty snapshot")
	}
	width := len(rows[0])
	for r, row := range rows {
		if len(row) != width {
			return nil, configErrorf("snapshot row %d has %d columns, want %d", r, len(row), width)
		}
	}
	e, err := New(width, len(rows), rule, opts...)
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		for c, v := range row {
			if err := e.SetValue(r, c, v); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

func (e *Engine) Width() int        { return e.width }
func (e *Engine) Height() int       { return e.height }
func (e *Engine) Padding() int      { return e.pad }
func (e *Engine) Rule() Rule        { return e.rule }
func (e *Engine) TimeStep() float64 { return e.timeStep }

// Steps returns the number of completed steps.
func (e *Engine) Steps() int { return e.steps }

func (e *Engine) inDomain(row, col int) bool {
	return row >= 0 && row < e.height && col >= 0 && col < e.width
}

// SetValue writes v at logical (row, col).
func (e *Engine) SetValue(row, col int, v float64) error {
	if !e.inDomain(row, col) {
		return &CellError{Row: row, Col: col, Value: v, Wrapped: ErrRange}
	}
	if !e.field.Valid(v) {
		return &CellError{Row: row, Col: col, Value: v, Wrapped: ErrDomain}
	}
	sr, sc := row+e.pad, col+e.pad
	if err := e.field.Set(sr, sc, v); err != nil {
		return err
	}
	if e.seeder != nil {
		e.seeder.Seed(sr, sc, v)
	}
	return nil
}

// SetValueBlock writes v over the logical rectangle spanned by the two
// corners, clamped into the domain.
func (e *Engine) SetValueBlock(r1, c1, r2, c2 int, v float64) error {
	if !e.field.Valid(v) {
		return &CellError{Row: r1, Col: c1, Value: v, Wrapped: ErrDomain}
	}
	top, left, bottom, right := normalizeRect(r1, c1, r2, c2, e.height, e.width)
	p := e.pad
	if err := e.field.SetBlock(top+p, left+p, bottom+p, right+p, v); err != nil {
		return err
	}
	if e.seeder != nil {
		for r := top; r <= bottom; r++ {
			for c := left; c <= right; c++ {
				e.seeder.Seed(r+p, c+p, v)
			}
		}
	}
	return nil
}

// SetObstacleRect obstructs the logical rectangle spanned by the two corners.
func (e *Engine) SetObstacleRect(r1, c1, r2, c2 int) {
	top, left, bottom, right := normalizeRect(r1, c1, r2, c2, e.height, e.width)
	p := e.pad
	e.mask.MarkRectangle(top+p, left+p, bottom+p, right+p)
}

// ClearObstacleRect removes obstacles from the logical rectangle.
func (e *Engine) ClearObstacleRect(r1, c1, r2, c2 int) {
	top, left, bottom, right := normalizeRect(r1, c1, r2, c2, e.height, e.width)
	p := e.pad
	e.mask.ClearRectangle(top+p, left+p, bottom+p, right+p)
}

// Value returns the value at logical (row, col).
func (e *Engine) Value(row, col int) (float64, error) {
	if !e.inDomain(row, col) {
		return 0, &CellError{Row: row, Col: col, Wrapped: ErrRange}
	}
	return e.field.At(row+e.pad, col+e.pad), nil
}

// IsObstacle reports whether logical (row, col) is obstructed.
func (e *Engine) IsObstacle(row, col int) bool {
	if !e.inDomain(row, col) {
		return false
	}
	return e.mask.IsObstacle(row+e.pad, col+e.pad)
}

// Metric returns the sum of the field over the swept region. Obstacles count
// with their stored value; the padding ring does not.
func (e *Engine) Metric() float64 {
	total := 0.0
	sw := e.field.width
	for r := e.pad; r < e.field.height-e.pad; r++ {
		row := e.field.data[r*sw : (r+1)*sw]
		for c := e.pad; c < sw-e.pad; c++ {
			total += row[c]
		}
	}
	return total
}

// History returns the metric recorded before the first step followed by one
// entry per completed step. Before any step it holds the current metric only.
func (e *Engine) History() []float64 {
	if len(e.history) == 0 {
		return []float64{e.Metric()}
	}
	out := make([]float64, len(e.history))
	copy(out, e.history)
	return out
}

// Snapshot returns the logical field, one slice per row, padding excluded.
func (e *Engine) Snapshot() [][]float64 {
	out := make([][]float64, e.height)
	sw := e.field.width
	for r := range out {
		base := (r+e.pad)*sw + e.pad
		out[r] = make([]float64, e.width)
		copy(out[r], e.field.data[base:base+e.width])
	}
	return out
}

// Obstacles returns the logical obstacle mask, one slice per row.
func (e *Engine) Obstacles() [][]bool {
	out := make([][]bool, e.height)
	for r := range out {
		out[r] = make([]bool, e.width)
		for c := range out[r] {
			out[r][c] = e.mask.IsObstacle(r+e.pad, c+e.pad)
		}
	}
	return out
}

// Step advances the field by one synchronous update. Every rule invocation
// reads the pre-step field; results go to the spare buffer, which replaces
// the field only after the whole sweep. Obstacle cells keep their values.
func (e *Engine) Step(useDiagonals, wrap bool) {
	if len(e.history) == 0 {
		e.history = append(e.history, e.Metric())
	}
	mode := ModeFor(wrap)
	copy(e.spare.data, e.field.data)

	restricted := e.field.Restricted()
	site := Site{Field: e.field, HasDiag: useDiagonals}
	sw, sh, p := e.field.width, e.field.height, e.pad
	for r := p; r < sh-p; r++ {
		for c := p; c < sw-p; c++ {
			if e.mask.IsObstacle(r, c) {
				continue
			}
			site.Row, site.Col = r, c
			site.Center = e.field.At(r, c)
			site.Ortho = e.resolver.Orthogonal(r, c, mode)
			if useDiagonals {
				site.Diag = e.resolver.Diagonal(r, c, mode)
			} else {
				site.Diag = [4]float64{}
			}
			next := e.rule.Next(&site)
			if restricted {
				next = e.field.Nearest(next)
			}
			e.spare.data[r*sw+c] = next
		}
	}

	e.field, e.spare = e.spare, e.field
	e.resolver.Field = e.field
	e.steps++
	e.history = append(e.history, e.Metric())
}
