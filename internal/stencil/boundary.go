package stencil

// Mode selects how neighbor coordinates past the interior edge are resolved.
type Mode int

const (
	// Clamped clips each axis into the interior range, giving a zero-gradient
	// (Neumann) edge.
	Clamped Mode = iota
	// Periodic wraps each axis around the interior span.
	Periodic
)

// ModeFor maps the wrap flag of a step onto a Mode.
func ModeFor(wrap bool) Mode {
	if wrap {
		return Periodic
	}
	return Clamped
}

func (m Mode) String() string {
	switch m {
	case Clamped:
		return "clamped"
	case Periodic:
		return "periodic"
	}
	return "unknown"
}

// Offset is a (row, col) displacement from a stencil center.
type Offset struct{ DR, DC int }

var (
	// OrthogonalOffsets lists up, down, left, right.
	OrthogonalOffsets = [4]Offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	// DiagonalOffsets lists up-left, up-right, down-left, down-right.
	DiagonalOffsets = [4]Offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
)

// Resolver looks up stencil neighbors on a padded field. Every lookup lands
// inside the interior [Pad, dim-1-Pad]; lookups never fail.
type Resolver struct {
	Field *Grid
	Mask  *Mask
	Pad   int
}

func resolveAxis(v, dim, pad int, mode Mode) int {
	lo, hi := pad, dim-1-pad
	if mode == Periodic {
		span := hi - lo + 1
		return ((v-lo)%span+span)%span + lo
	}
	return clamp(v, lo, hi)
}

// Coord resolves a raw storage coordinate under mode.
func (r *Resolver) Coord(row, col int, mode Mode) (int, int) {
	return resolveAxis(row, r.Field.height, r.Pad, mode), resolveAxis(col, r.Field.width, r.Pad, mode)
}

// Value returns the neighbor of (row, col) at offset (dr, dc). An obstructed
// neighbor reports the center's own value, so no flux crosses an obstacle face.
func (r *Resolver) Value(row, col, dr, dc int, mode Mode) float64 {
	nr, nc := r.Coord(row+dr, col+dc, mode)
	if r.Mask != nil && r.Mask.IsObstacle(nr, nc) {
		return r.Field.At(row, col)
	}
	return r.Field.At(nr, nc)
}

// Orthogonal resolves the four edge neighbors in OrthogonalOffsets order.
func (r *Resolver) Orthogonal(row, col int, mode Mode) [4]float64 {
	return r.gather(row, col, mode, &OrthogonalOffsets)
}

// Diagonal resolves the four corner neighbors in DiagonalOffsets order.
func (r *Resolver) Diagonal(row, col int, mode Mode) [4]float64 {
	return r.gather(row, col, mode, &DiagonalOffsets)
}

func (r *Resolver) gather(row, col int, mode Mode, offs *[4]Offset) [4]float64 {
	var out [4]float64
	for i, o := range offs {
		out[i] = r.Value(row, col, o.DR, o.DC, mode)
	}
	return out
}
