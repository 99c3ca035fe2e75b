package stencil

import "sort"

// Grid stores a scalar field of float64 cells in row-major order.
type Grid struct {
	width, height int
	data          []float64
	valid         map[float64]struct{}
}

// NewGrid allocates a zeroed grid. When valid values are given every write
// must be one of them; an empty list leaves the grid unrestricted.
func NewGrid(width, height int, valid ...float64) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, configErrorf("grid size %dx%d must be positive", width, height)
	}
	g := &Grid{
		width:  width,
		height: height,
		data:   make([]float64, width*height),
	}
	if len(valid) > 0 {
		g.valid = make(map[float64]struct{}, len(valid))
		for _, v := range valid {
			g.valid[v] = struct{}{}
		}
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Restricted reports whether writes are limited to a declared value set.
func (g *Grid) Restricted() bool { return len(g.valid) > 0 }

// ValidValues returns the permitted values in ascending order, or nil.
func (g *Grid) ValidValues() []float64 {
	if len(g.valid) == 0 {
		return nil
	}
	out := make([]float64, 0, len(g.valid))
	for v := range g.valid {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// Valid reports whether v may be written to the grid.
func (g *Grid) Valid(v float64) bool {
	if len(g.valid) == 0 {
		return true
	}
	_, ok := g.valid[v]
	return ok
}

// Nearest returns the permitted value closest to v, preferring the lower one
// on ties. Unrestricted grids return v.
func (g *Grid) Nearest(v float64) float64 {
	if len(g.valid) == 0 {
		return v
	}
	if _, ok := g.valid[v]; ok {
		return v
	}
	best, bestDist, found := 0.0, 0.0, false
	for c := range g.valid {
		d := c - v
		if d < 0 {
			d = -d
		}
		if !found || d < bestDist || (d == bestDist && c < best) {
			best, bestDist, found = c, d, true
		}
	}
	return best
}

// Contains reports whether (row, col) lies inside the grid.
func (g *Grid) Contains(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

func (g *Grid) index(row, col int) int { return row*g.width + col }

// Get returns the value at (row, col).
func (g *Grid) Get(row, col int) (float64, error) {
	if !g.Contains(row, col) {
		return 0, &CellError{Row: row, Col: col, Wrapped: ErrRange}
	}
	return g.data[g.index(row, col)], nil
}

// At returns the value at (row, col) without bounds checking beyond the
// slice's own.
func (g *Grid) At(row, col int) float64 {
	return g.data[g.index(row, col)]
}

// Set writes v at (row, col).
func (g *Grid) Set(row, col int, v float64) error {
	if !g.Contains(row, col) {
		return &CellError{Row: row, Col: col, Value: v, Wrapped: ErrRange}
	}
	if !g.Valid(v) {
		return &CellError{Row: row, Col: col, Value: v, Wrapped: ErrDomain}
	}
	g.data[g.index(row, col)] = v
	return nil
}

// Neighbors returns the in-bounds values of the 3x3 block around (row, col),
// excluding the center, in row-major order. Cells beyond the edge are omitted.
func (g *Grid) Neighbors(row, col int) []float64 {
	out := make([]float64, 0, 8)
	for r := row - 1; r <= row+1; r++ {
		for c := col - 1; c <= col+1; c++ {
			if (r == row && c == col) || !g.Contains(r, c) {
				continue
			}
			out = append(out, g.data[g.index(r, c)])
		}
	}
	return out
}

// SetBlock overwrites every cell of the rectangle spanned by the two corners.
// Corners are clamped into the grid and normalized, so the argument order of
// the corners does not matter.
func (g *Grid) SetBlock(r1, c1, r2, c2 int, v float64) error {
	if !g.Valid(v) {
		return &CellError{Row: r1, Col: c1, Value: v, Wrapped: ErrDomain}
	}
	top, left, bottom, right := normalizeRect(r1, c1, r2, c2, g.height, g.width)
	for r := top; r <= bottom; r++ {
		row := g.data[r*g.width : (r+1)*g.width]
		for c := left; c <= right; c++ {
			row[c] = v
		}
	}
	return nil
}

// Fill sets every cell to v, ignoring the value restriction.
func (g *Grid) Fill(v float64) {
	for i := range g.data {
		g.data[i] = v
	}
}

// CopyFrom copies src's cells into g. Both grids must share dimensions.
func (g *Grid) CopyFrom(src *Grid) error {
	if src.width != g.width || src.height != g.height {
		return configErrorf("copy %dx%d into %dx%d", src.width, src.height, g.width, g.height)
	}
	copy(g.data, src.data)
	return nil
}

// Clone returns an independent copy, value restriction included.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height, data: make([]float64, len(g.data)), valid: g.valid}
	copy(c.data, g.data)
	return c
}

// Sum returns the total over all cells.
func (g *Grid) Sum() float64 {
	total := 0.0
	for _, v := range g.data {
		total += v
	}
	return total
}

// Rows returns a copy of the field as one slice per row.
func (g *Grid) Rows() [][]float64 {
	out := make([][]float64, g.height)
	for r := range out {
		out[r] = make([]float64, g.width)
		copy(out[r], g.data[r*g.width:(r+1)*g.width])
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeRect clamps both corners into [0,rows)x[0,cols) and orders them
// top-left first.
func normalizeRect(r1, c1, r2, c2, rows, cols int) (top, left, bottom, right int) {
	r1, r2 = clamp(r1, 0, rows-1), clamp(r2, 0, rows-1)
	c1, c2 = clamp(c1, 0, cols-1), clamp(c2, 0, cols-1)
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	return r1, c1, r2, c2
}
