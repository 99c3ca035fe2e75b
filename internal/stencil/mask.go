package stencil

// Mask marks obstructed cells. An obstructed cell keeps its value across steps
// and insulates its neighbors.
type Mask struct {
	width, height int
	cells         []bool
}

// NewMask allocates an unobstructed mask.
func NewMask(width, height int) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, configErrorf("mask size %dx%d must be positive", width, height)
	}
	return &Mask{width: width, height: height, cells: make([]bool, width*height)}, nil
}

func (m *Mask) Width() int  { return m.width }
func (m *Mask) Height() int { return m.height }

// IsObstacle reports whether (row, col) is obstructed. Coordinates outside the
// mask are never obstructed.
func (m *Mask) IsObstacle(row, col int) bool {
	if row < 0 || row >= m.height || col < 0 || col >= m.width {
		return false
	}
	return m.cells[row*m.width+col]
}

// MarkRectangle obstructs every cell in the clamped, normalized rectangle.
func (m *Mask) MarkRectangle(r1, c1, r2, c2 int) {
	m.fill(r1, c1, r2, c2, true)
}

// ClearRectangle removes obstructions from the clamped, normalized rectangle.
func (m *Mask) ClearRectangle(r1, c1, r2, c2 int) {
	m.fill(r1, c1, r2, c2, false)
}

func (m *Mask) fill(r1, c1, r2, c2 int, v bool) {
	top, left, bottom, right := normalizeRect(r1, c1, r2, c2, m.height, m.width)
	for r := top; r <= bottom; r++ {
		for c := left; c <= right; c++ {
			m.cells[r*m.width+c] = v
		}
	}
}

// Count returns the number of obstructed cells.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.cells {
		if v {
			n++
		}
	}
	return n
}

// Pair checks that the mask can shadow g.
func Pair(g *Grid, m *Mask) error {
	if g.width != m.width || g.height != m.height {
		return configErrorf("mask %dx%d does not match grid %dx%d", m.width, m.height, g.width, g.height)
	}
	return nil
}
